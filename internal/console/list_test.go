package console

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskconsole/internal/backend"
	"riskconsole/pkg/models"
)

type memStore struct {
	mu      sync.Mutex
	items   []models.Asset
	nextID  int
	listErr error
	calls   []string
}

func (s *memStore) List(ctx context.Context, q url.Values) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Asset, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "create")
	s.nextID++
	a.AssetID = s.nextID
	s.items = append(s.items, a)
	return a, nil
}

func (s *memStore) Update(ctx context.Context, id int, a models.Asset) (models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("update %d", id))
	for i := range s.items {
		if s.items[i].AssetID == id {
			a.AssetID = id
			s.items[i] = a
			return a, nil
		}
	}
	return models.Asset{}, &backend.StatusError{Code: 404}
}

func (s *memStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, fmt.Sprintf("delete %d", id))
	for i := range s.items {
		if s.items[i].AssetID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return &backend.StatusError{Code: 404}
}

func validAsset(name string) models.Asset {
	return models.Asset{AssetName: name, AssetType: "server", CriticalityLevel: "high"}
}

func TestListCreateFlow(t *testing.T) {
	store := &memStore{}
	l := NewList[models.Asset](store)
	ctx := context.Background()

	require.NoError(t, l.Refresh(ctx))
	assert.Empty(t, l.Items())

	l.NewDraft()
	_, mode := l.Draft()
	assert.Equal(t, ModeCreate, mode)

	l.SetDraft(validAsset("db01"))
	saved, err := l.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.AssetID)

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "db01", items[0].AssetName)

	_, mode = l.Draft()
	assert.Equal(t, ModeIdle, mode)
	assert.Equal(t, []string{"list", "create", "list"}, store.calls)
}

func TestListValidationKeepsDraft(t *testing.T) {
	store := &memStore{}
	l := NewList[models.Asset](store)

	l.NewDraft()
	l.SetDraft(models.Asset{AssetName: "db01", CriticalityLevel: "extreme"})
	_, err := l.Submit(context.Background())

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "is required", fe["asset_type"])
	assert.Contains(t, fe["criticality_level"], "must be one of")
	assert.Empty(t, store.calls)

	draft, mode := l.Draft()
	assert.Equal(t, ModeCreate, mode)
	assert.Equal(t, "db01", draft.AssetName)
}

func TestListEditAndDelete(t *testing.T) {
	store := &memStore{items: []models.Asset{{AssetID: 3, AssetName: "web", AssetType: "vm", CriticalityLevel: "low"}}, nextID: 3}
	l := NewList[models.Asset](store)
	ctx := context.Background()
	require.NoError(t, l.Refresh(ctx))

	require.ErrorIs(t, l.Edit(99), ErrUnknownItem)
	require.NoError(t, l.Edit(3))
	draft, mode := l.Draft()
	assert.Equal(t, ModeEdit, mode)
	draft.CriticalityLevel = "critical"
	l.SetDraft(draft)

	_, err := l.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "critical", l.Items()[0].CriticalityLevel)

	require.NoError(t, l.Delete(ctx, 3))
	assert.Empty(t, l.Items())
	assert.Equal(t, []string{"list", "update 3", "list", "delete 3", "list"}, store.calls)
}

func TestListEditItemNotYetFetched(t *testing.T) {
	store := &memStore{items: []models.Asset{{AssetID: 40, AssetName: "old", AssetType: "vm", CriticalityLevel: "low"}}}
	l := NewList[models.Asset](store)

	l.EditItem(40, validAsset("renamed"))
	draft, mode := l.Draft()
	assert.Equal(t, ModeEdit, mode)
	assert.Equal(t, "renamed", draft.AssetName)

	saved, err := l.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, saved.AssetID)
	assert.Equal(t, []string{"update 40", "list"}, store.calls)
	assert.Equal(t, "renamed", l.Items()[0].AssetName)
}

func TestValidateRecord(t *testing.T) {
	err := ValidateRecord(&models.IncidentThreat{IncidentID: 2})
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "is required", fe["threat_id"])
	assert.NoError(t, ValidateRecord(models.IncidentThreat{IncidentID: 2, ThreatID: 3}))
}

func TestListSubmitWithoutDraft(t *testing.T) {
	l := NewList[models.Asset](&memStore{})
	_, err := l.Submit(context.Background())
	require.ErrorIs(t, err, ErrNoDraft)
}

func TestListTransportErrorSetsBannerAndKeepsItems(t *testing.T) {
	store := &memStore{items: []models.Asset{validAsset("a")}}
	l := NewList[models.Asset](store)
	ctx := context.Background()
	require.NoError(t, l.Refresh(ctx))

	store.listErr = fmt.Errorf("%w: dial tcp", backend.ErrUnavailable)
	err := l.Refresh(ctx)
	require.ErrorIs(t, err, backend.ErrUnavailable)
	assert.Contains(t, l.Banner(), "unavailable")
	assert.Len(t, l.Items(), 1)

	store.listErr = nil
	require.NoError(t, l.Refresh(ctx))
	assert.Empty(t, l.Banner())
}

func TestListDeleteStatusError(t *testing.T) {
	l := NewList[models.Asset](&memStore{})
	err := l.Delete(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, l.Banner(), "status 404")

	l.DismissBanner()
	assert.Empty(t, l.Banner())
}

func TestListClosedDiscardsRefresh(t *testing.T) {
	store := &memStore{items: []models.Asset{validAsset("a")}}
	l := NewList[models.Asset](store)
	l.Close()

	require.ErrorIs(t, l.Refresh(context.Background()), ErrStale)
	assert.Empty(t, l.Items())
}

func TestListCancelledRefreshDiscarded(t *testing.T) {
	store := &memStore{items: []models.Asset{validAsset("a")}}
	l := NewList[models.Asset](store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, l.Refresh(ctx), ErrStale)
	assert.Empty(t, l.Items())
}

func TestValidateUsesWireNames(t *testing.T) {
	l := NewList[models.User](nil)
	err := l.Validate(models.User{Username: "ana", Email: "not-an-email", Role: "root"})

	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "must be a valid email address", fe["email"])
	assert.Contains(t, fe["role"], "admin, analyst, manager, user")
	assert.Contains(t, err.Error(), "validation failed: email:")
}

func TestEntityConfigs(t *testing.T) {
	names := []string{}
	for _, cfg := range Entities() {
		names = append(names, cfg.Name)
		assert.NotEmpty(t, cfg.Columns(), cfg.Name)
	}
	assert.Equal(t, []string{"alerts", "assets", "incidents", "threat_intelligence", "users", "vulnerabilities"}, names)

	cfg, ok := LookupEntity("assets")
	require.True(t, ok)
	assert.Equal(t, "asset_id", cfg.IDName)

	_, ok = LookupEntity("reports")
	assert.False(t, ok)
}
