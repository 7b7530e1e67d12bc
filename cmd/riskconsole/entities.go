package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"riskconsole/internal/backend"
	"riskconsole/internal/console"
	"riskconsole/internal/render"
)

func newEntitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities <entity>",
		Short: "List backend entities using their configured columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ecfg, ok := console.LookupEntity(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q", args[0])
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newBackend(cfg, nil)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			rows, banner, err := fetchRows(ctx, client, ecfg.Name)
			if banner != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), render.Banner(banner))
			}
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), ecfg, rows)
		},
	}
	return cmd
}

// fetchRows lists an entity through the generic list state and returns the
// items as generic JSON objects.
func fetchRows(ctx context.Context, c *backend.Client, entity string) ([]map[string]interface{}, string, error) {
	switch entity {
	case "users":
		return listRows(ctx, c.Users())
	case "assets":
		return listRows(ctx, c.Assets())
	case "vulnerabilities":
		return listRows(ctx, c.Vulnerabilities())
	case "alerts":
		return listRows(ctx, c.Alerts())
	case "incidents":
		return listRows(ctx, c.Incidents())
	case "threat_intelligence":
		return listRows(ctx, c.Threats())
	}
	return nil, "", fmt.Errorf("unknown entity %q", entity)
}

func listRows[T console.Entity](ctx context.Context, col *backend.Collection[T]) ([]map[string]interface{}, string, error) {
	l := console.NewList[T](col)
	defer l.Close()
	if err := l.Refresh(ctx); err != nil {
		return nil, l.Banner(), err
	}
	items := l.Items()
	data, err := json.Marshal(items)
	if err != nil {
		return nil, "", err
	}
	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, "", err
	}
	return rows, "", nil
}

func printTable(w io.Writer, cfg console.EntityConfig, rows []map[string]interface{}) error {
	cols := cfg.Columns()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "ID")
	for _, c := range cols {
		fmt.Fprint(tw, "\t"+c.Label)
	}
	fmt.Fprintln(tw)
	for _, row := range rows {
		fmt.Fprint(tw, cell(row[cfg.IDName]))
		for _, c := range cols {
			fmt.Fprint(tw, "\t"+cell(row[c.Name]))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprint(x)
	}
}
