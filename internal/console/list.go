package console

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"riskconsole/internal/backend"
	"riskconsole/internal/logger"
)

var log = logger.Named("console")

// ErrStale is returned when a fetch finished after a newer one started or
// after the view was closed. Its result has not been applied.
var ErrStale = errors.New("result superseded")

// ErrNoDraft is returned by Submit when nothing is being edited.
var ErrNoDraft = errors.New("no draft to submit")

// ErrUnknownItem is returned when editing an id that is not in the list.
var ErrUnknownItem = errors.New("item not in list")

// Entity is a backend record with a numeric identity.
type Entity interface {
	Key() int
}

// Store is the remote CRUD state behind a list.
type Store[T Entity] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int, item T) (T, error)
	Delete(ctx context.Context, id int) error
}

// Mode is the draft editing mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "idle"
	}
}

// FieldErrors maps a field's wire name to a validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for name, msg := range fe {
		parts = append(parts, name+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// List is the view state for one entity collection: the fetched items, an
// optional draft being created or edited, and a banner for backend errors.
type List[T Entity] struct {
	mu       sync.Mutex
	store    Store[T]
	validate *validator.Validate
	query    url.Values

	items  []T
	draft  T
	mode   Mode
	editID int
	banner string
	gen    uint64
	closed bool
}

// NewList creates a list over a store.
func NewList[T Entity](store Store[T]) *List[T] {
	return &List[T]{store: store, validate: newValidator()}
}

// SetQuery sets the filter used by Refresh.
func (l *List[T]) SetQuery(q url.Values) {
	l.mu.Lock()
	l.query = q
	l.mu.Unlock()
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Banner returns the current error banner, empty when there is none.
func (l *List[T]) Banner() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.banner
}

// DismissBanner clears the error banner.
func (l *List[T]) DismissBanner() {
	l.mu.Lock()
	l.banner = ""
	l.mu.Unlock()
}

// Refresh refetches the list. On failure the previous items are kept and the
// banner is set.
func (l *List[T]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	query := l.query
	l.mu.Unlock()

	items, err := l.store.List(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen || ctx.Err() != nil {
		return ErrStale
	}
	if err != nil {
		l.banner = bannerFor(err)
		log.Warnf("refresh failed: %v", err)
		return err
	}
	l.items = items
	l.banner = ""
	return nil
}

// NewDraft starts creating a new item.
func (l *List[T]) NewDraft() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.draft = zero
	l.mode = ModeCreate
	l.editID = 0
}

// Edit starts editing the listed item with the given id.
func (l *List[T]) Edit(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.Key() == id {
			l.draft = it
			l.mode = ModeEdit
			l.editID = id
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownItem, id)
}

// EditItem starts editing the item with the given id using item as the
// draft. The item does not have to be in the fetched page.
func (l *List[T]) EditItem(id int, item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.draft = item
	l.mode = ModeEdit
	l.editID = id
}

// Draft returns the draft and the editing mode.
func (l *List[T]) Draft() (T, Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draft, l.mode
}

// SetDraft replaces the draft contents.
func (l *List[T]) SetDraft(item T) {
	l.mu.Lock()
	l.draft = item
	l.mu.Unlock()
}

// Cancel discards the draft.
func (l *List[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.draft = zero
	l.mode = ModeIdle
	l.editID = 0
}

// Submit validates the draft, sends it to the backend and refetches the list.
// The draft is kept when validation or the request fails.
func (l *List[T]) Submit(ctx context.Context) (T, error) {
	var zero T
	l.mu.Lock()
	draft, mode, id := l.draft, l.mode, l.editID
	l.mu.Unlock()

	if mode == ModeIdle {
		return zero, ErrNoDraft
	}
	if err := l.Validate(draft); err != nil {
		return zero, err
	}

	var (
		saved T
		err   error
	)
	if mode == ModeCreate {
		saved, err = l.store.Create(ctx, draft)
	} else {
		saved, err = l.store.Update(ctx, id, draft)
	}
	if err != nil {
		l.setBanner(err)
		return zero, err
	}

	l.Cancel()
	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		return saved, err
	}
	return saved, nil
}

// Delete removes an item and refetches the list.
func (l *List[T]) Delete(ctx context.Context, id int) error {
	if err := l.store.Delete(ctx, id); err != nil {
		l.setBanner(err)
		return err
	}
	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrStale) {
		return err
	}
	return nil
}

// Close marks the view torn down; in-flight fetches are discarded.
func (l *List[T]) Close() {
	l.mu.Lock()
	l.closed = true
	l.gen++
	l.mu.Unlock()
}

// Validate checks an item against its validate tags.
func (l *List[T]) Validate(item T) error {
	return validateItem(l.validate, item)
}

func (l *List[T]) setBanner(err error) {
	l.mu.Lock()
	l.banner = bannerFor(err)
	l.mu.Unlock()
}

func bannerFor(err error) string {
	var se *backend.StatusError
	switch {
	case errors.Is(err, backend.ErrUnavailable):
		return "Backend unavailable. Retry when the connection is restored."
	case errors.As(err, &se):
		return fmt.Sprintf("Backend rejected the request (status %d).", se.Code)
	default:
		return "Request failed: " + err.Error()
	}
}

var recordValidator = newValidator()

// ValidateRecord checks any record against its validate tags.
func ValidateRecord(item interface{}) error {
	return validateItem(recordValidator, item)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func validateItem(v *validator.Validate, item interface{}) error {
	err := v.Struct(item)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		fe[e.Field()] = messageFor(e)
	}
	return fe
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	default:
		return "failed " + e.Tag() + " check"
	}
}
