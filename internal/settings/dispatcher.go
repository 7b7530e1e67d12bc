package settings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"riskconsole/internal/logger"
)

var log = logger.Named("settings")

// ErrUnknownAction is returned for an action id with no registered command.
var ErrUnknownAction = errors.New("unknown settings action")

// Caller sends one request to the backend.
type Caller interface {
	Do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error
}

// Action is one maintenance command exposed by the backend.
type Action struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	SuccessMsg string `json:"success_message"`
	ErrorMsg   string `json:"error_message"`
	Icon       string `json:"icon"`
	Dangerous  bool   `json:"dangerous,omitempty"`
}

// Result is the outcome of running an action.
type Result struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type response struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Success *bool  `json:"success"`
}

var actions = []Action{
	{ID: "create_database", Title: "Create Database", Method: http.MethodPost, Path: "/settings/create_database_no_procedure/",
		SuccessMsg: "Database created.", ErrorMsg: "Failed to create the database: ", Icon: "database"},
	{ID: "create_tables_procedure", Title: "Create Tables Procedure", Method: http.MethodPost, Path: "/settings/create_tables_procedure/",
		SuccessMsg: "Tables procedure created.", ErrorMsg: "Failed to create the tables procedure: ", Icon: "tableDensityExpanded"},
	{ID: "execute_tables_procedure", Title: "Execute Tables Procedure", Method: http.MethodPost, Path: "/settings/execute_tables_procedure/",
		SuccessMsg: "Tables created.", ErrorMsg: "Failed to execute the tables procedure: ", Icon: "playFilled"},
	{ID: "create_dashboard_view", Title: "Create Dashboard View", Method: http.MethodPost, Path: "/dashboard/create_view/",
		SuccessMsg: "Dashboard View created successfully.", ErrorMsg: "Failed to create the dashboard view: ", Icon: "dashboardApp"},
	{ID: "create_risk_score_function", Title: "Create Risk Score Function", Method: http.MethodPost, Path: "/risk/create_risk_score_function/",
		SuccessMsg: "Risk score function created.", ErrorMsg: "Failed to create the risk score function: ", Icon: "visGauge"},
	{ID: "create_truncate_procedure", Title: "Create Truncate Procedure", Method: http.MethodPost, Path: "/settings/create_truncate_procedure/",
		SuccessMsg: "Truncate procedure created.", ErrorMsg: "Failed to create the procedure: ", Icon: "eraser"},
	{ID: "execute_truncate_procedure", Title: "Execute Truncate Procedure", Method: http.MethodPost, Path: "/settings/execute_truncate_procedure/",
		SuccessMsg: "Truncate procedure executed.", ErrorMsg: "Failed to execute the procedure: ", Icon: "play", Dangerous: true},
	{ID: "drop_database", Title: "Drop Database", Method: http.MethodPost, Path: "/settings/drop_database/",
		SuccessMsg: "Database dropped.", ErrorMsg: "Failed to drop the database: ", Icon: "trash", Dangerous: true},
}

// Dispatcher maps action ids to backend commands.
type Dispatcher struct {
	caller  Caller
	actions map[string]Action
}

// NewDispatcher creates a dispatcher with the built-in actions.
func NewDispatcher(caller Caller) *Dispatcher {
	d := &Dispatcher{caller: caller, actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		d.actions[a.ID] = a
	}
	return d
}

// Actions lists the registered actions in display order.
func (d *Dispatcher) Actions() []Action {
	out := make([]Action, 0, len(d.actions))
	for _, a := range d.actions {
		out = append(out, a)
	}
	order := make(map[string]int, len(actions))
	for i, a := range actions {
		order[a.ID] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i].ID] < order[out[j].ID] })
	return out
}

// Lookup returns an action by id.
func (d *Dispatcher) Lookup(id string) (Action, bool) {
	a, ok := d.actions[strings.TrimSpace(id)]
	return a, ok
}

// Run sends the action to the backend. A backend-reported failure is returned
// as a Result with Success false; only unknown actions and transport or status
// errors are returned as errors, alongside a failure Result.
func (d *Dispatcher) Run(ctx context.Context, id string) (Result, error) {
	a, ok := d.Lookup(id)
	if !ok {
		return Result{Action: id}, fmt.Errorf("%w: %q", ErrUnknownAction, id)
	}

	var resp response
	if err := d.caller.Do(ctx, a.Method, a.Path, nil, nil, &resp); err != nil {
		log.Warnf("action %s failed: %v", a.ID, err)
		return Result{Action: a.ID, Message: a.ErrorMsg + err.Error()}, err
	}

	if resp.Success != nil && !*resp.Success {
		msg := firstNonEmpty(resp.Message, resp.Detail, "backend reported failure")
		log.Warnf("action %s rejected: %s", a.ID, msg)
		return Result{Action: a.ID, Message: a.ErrorMsg + msg}, nil
	}

	log.Infof("action %s completed", a.ID)
	return Result{
		Action:  a.ID,
		Success: true,
		Message: firstNonEmpty(resp.Detail, resp.Message, a.SuccessMsg),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
