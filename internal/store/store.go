// Package store implements the resource store pattern: one store per
// entity, each owning a remote-synchronized collection, its pagination
// window, a loading flag, and the CRUD operations that keep the local
// collection in step with the backend.
package store

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/campusadmin/campusctl/internal/client"
	"github.com/campusadmin/campusctl/internal/model"
)

// fetchAllLimit is the page size used to populate the unpaginated cache
// backing selection lists.
const fetchAllLimit = 1000

// Config describes one entity collection.
type Config struct {
	// Path is the collection endpoint, e.g. "/colleges".
	Path string
	// Singular is the JSON key the backend uses for a single record in
	// mutation responses, e.g. "college".
	Singular string
	// SortKey orders the unpaginated cache, e.g. "college_code".
	SortKey string
}

// Store manages one entity collection. Safe for concurrent use; when two
// independently triggered actions interleave, the last completed write
// determines visible state.
type Store[T model.Entity] struct {
	client *client.Client
	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	items      []T
	all        []T
	pagination model.PageInfo
	loading    bool
}

// Option configures a Store.
type Option[T model.Entity] func(*Store[T])

// WithLogger sets the logger.
func WithLogger[T model.Entity](logger *zap.Logger) Option[T] {
	return func(s *Store[T]) { s.logger = logger }
}

// New creates a Store for one entity collection.
func New[T model.Entity](c *client.Client, cfg Config, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		client: c,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// listEnvelope is the paginated list response.
type listEnvelope[T any] struct {
	Data       []T            `json:"data"`
	Pagination model.PageInfo `json:"pagination"`
}

// Fetch loads one page of the collection, replacing the items and the
// pagination window wholesale. Failures leave prior state unchanged and
// are logged; the returned error is informational, not fatal to the UI.
func (s *Store[T]) Fetch(ctx context.Context, params map[string]string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Get(ctx, s.cfg.Path, params)
	if err != nil {
		s.logger.Error("fetching collection", zap.String("path", s.cfg.Path), zap.Error(err))
		return err
	}
	if err := resp.Err(); err != nil {
		s.logger.Error("fetching collection", zap.String("path", s.cfg.Path), zap.Error(err))
		return err
	}

	items, page, err := decodeList[T](resp.Body)
	if err != nil {
		s.logger.Error("decoding collection", zap.String("path", s.cfg.Path), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.items = items
	s.pagination = page
	s.mu.Unlock()
	return nil
}

// FetchAll loads the whole collection, sorted by the display key, into
// the independent unpaginated cache. CRUD mutations never write it.
func (s *Store[T]) FetchAll(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	params := map[string]string{
		"page":   "1",
		"limit":  strconv.Itoa(fetchAllLimit),
		"sortBy": s.cfg.SortKey,
	}
	resp, err := s.client.Get(ctx, s.cfg.Path, params)
	if err != nil {
		s.logger.Error("fetching full collection", zap.String("path", s.cfg.Path), zap.Error(err))
		return err
	}
	if err := resp.Err(); err != nil {
		s.logger.Error("fetching full collection", zap.String("path", s.cfg.Path), zap.Error(err))
		return err
	}

	items, _, err := decodeList[T](resp.Body)
	if err != nil {
		s.logger.Error("decoding full collection", zap.String("path", s.cfg.Path), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.all = items
	s.mu.Unlock()
	return nil
}

// Refresh resynchronizes from the server after a mutation: the current
// page plus the unpaginated cache.
func (s *Store[T]) Refresh(ctx context.Context, params map[string]string) error {
	if err := s.Fetch(ctx, params); err != nil {
		return err
	}
	return s.FetchAll(ctx)
}

// Create posts a new record and returns the server confirmation message.
// The local collection is not touched; callers refresh to see the new
// record.
func (s *Store[T]) Create(ctx context.Context, payload any) (string, error) {
	if err := model.Validate(payload); err != nil {
		return "", err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Post(ctx, s.cfg.Path, payload)
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}

	msg, _, err := s.decodeMutation(resp.Body)
	return msg, err
}

// Update puts changes to the record identified by id. On success, if the
// identifier is present in the currently loaded page, that entry is
// replaced in place with the server-returned record.
func (s *Store[T]) Update(ctx context.Context, id string, payload any) (string, error) {
	if err := model.Validate(payload); err != nil {
		return "", err
	}

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Put(ctx, s.cfg.Path+"/"+id, payload)
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}

	msg, updated, err := s.decodeMutation(resp.Body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Key() == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return msg, nil
}

// Delete removes the record identified by id. On success the matching
// entry is removed from the currently loaded page. The deleted record, as
// reported by the server, is returned for secondary cleanup.
func (s *Store[T]) Delete(ctx context.Context, id string) (string, T, error) {
	var zero T

	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.client.Delete(ctx, s.cfg.Path+"/"+id)
	if err != nil {
		return "", zero, err
	}
	if err := resp.Err(); err != nil {
		return "", zero, err
	}

	msg, deleted, err := s.decodeMutation(resp.Body)
	if err != nil {
		return "", zero, err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].Key() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return msg, deleted, nil
}

// Items returns a snapshot of the currently loaded page.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// All returns a snapshot of the unpaginated cache.
func (s *Store[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.all))
	copy(out, s.all)
	return out
}

// Pagination returns the pagination window of the last successful fetch.
func (s *Store[T]) Pagination() model.PageInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Loading reports whether an operation is in flight.
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// replaceLocal swaps the in-place entry matching id, if loaded. Used by
// entity-specific extensions that mutate single records.
func (s *Store[T]) replaceLocal(id string, record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Key() == id {
			s.items[i] = record
			return
		}
	}
}

// find returns the loaded entry matching id, if present.
func (s *Store[T]) find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Key() == id {
			return s.items[i], true
		}
	}
	var zero T
	return zero, false
}

func (s *Store[T]) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// decodeList accepts both the paginated envelope and the legacy bare
// array variant.
func decodeList[T any](body []byte) ([]T, model.PageInfo, error) {
	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, model.PageInfo{}, err
		}
		// A synthesized window still keeps limit positive.
		limit := len(items)
		if limit == 0 {
			limit = 1
		}
		page := model.PageInfo{
			TotalRecords: len(items),
			TotalPages:   1,
			CurrentPage:  1,
			Limit:        limit,
		}
		return items, page, nil
	}

	var envelope listEnvelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, model.PageInfo{}, err
	}
	return envelope.Data, envelope.Pagination, nil
}

// decodeMutation extracts the confirmation message and, when present, the
// record under the entity's singular key.
func (s *Store[T]) decodeMutation(body []byte) (string, T, error) {
	var zero T
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", zero, err
	}

	var msg string
	if m, ok := raw["message"]; ok {
		if err := json.Unmarshal(m, &msg); err != nil {
			return "", zero, err
		}
	}

	var record T
	if r, ok := raw[s.cfg.Singular]; ok {
		if err := json.Unmarshal(r, &record); err != nil {
			return "", zero, err
		}
	}
	return msg, record, nil
}

func firstNonSpace(body []byte) byte {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
