package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Collection is a CRUD endpoint for one entity type.
type Collection[T any] struct {
	client   *Client
	path     string
	envelope string
}

// NewCollection creates a collection rooted at path. When envelope is set,
// list responses are objects holding the items under that key.
func NewCollection[T any](c *Client, path, envelope string) *Collection[T] {
	return &Collection[T]{client: c, path: "/" + strings.Trim(path, "/") + "/", envelope: envelope}
}

// List fetches the items matching the query.
func (col *Collection[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	items, _, err := col.Page(ctx, query)
	return items, err
}

// Page fetches one page of items together with the total the backend
// reports for the query. The total is -1 when the response has none.
func (col *Collection[T]) Page(ctx context.Context, query url.Values) ([]T, int, error) {
	var raw json.RawMessage
	if err := col.client.Do(ctx, http.MethodGet, col.path, query, nil, &raw); err != nil {
		return nil, 0, err
	}
	return decodeList[T](raw, col.envelope)
}

// Get fetches one item.
func (col *Collection[T]) Get(ctx context.Context, id int) (T, error) {
	var out T
	err := col.client.Do(ctx, http.MethodGet, col.itemPath(id), nil, nil, &out)
	return out, err
}

// Create posts a new item and returns the stored version.
func (col *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := col.client.Do(ctx, http.MethodPost, col.path, nil, item, &out)
	return out, err
}

// Update replaces an item and returns the stored version.
func (col *Collection[T]) Update(ctx context.Context, id int, item T) (T, error) {
	var out T
	err := col.client.Do(ctx, http.MethodPut, col.itemPath(id), nil, item, &out)
	return out, err
}

// Delete removes an item.
func (col *Collection[T]) Delete(ctx context.Context, id int) error {
	return col.client.Do(ctx, http.MethodDelete, col.itemPath(id), nil, nil, nil)
}

func (col *Collection[T]) itemPath(id int) string {
	return col.path + strconv.Itoa(id)
}

// decodeList accepts either a bare JSON array or an envelope object. The
// envelope's count is returned, or -1 when there is none.
func decodeList[T any](raw json.RawMessage, envelope string) ([]T, int, error) {
	count := -1
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, count, nil
	}
	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, count, fmt.Errorf("decode list envelope: %w", err)
		}
		inner, ok := obj[envelope]
		if envelope == "" || !ok {
			return nil, count, fmt.Errorf("decode list: missing %q array", envelope)
		}
		if c, ok := obj["count"]; ok {
			if err := json.Unmarshal(c, &count); err != nil {
				return nil, -1, fmt.Errorf("decode list count: %w", err)
			}
		}
		raw = inner
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, count, fmt.Errorf("decode list: %w", err)
	}
	return items, count, nil
}
