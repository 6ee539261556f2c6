// Package session owns the in-memory state of one upload workflow: the
// validated batch waiting for dispatch, the rejection reports from the last
// file, the progress fraction of an active dispatch, and the cached roster.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hrsuite/bulkupload/internal/dispatch"
	"github.com/hrsuite/bulkupload/internal/domain"
	"github.com/hrsuite/bulkupload/internal/ingestion"
	"github.com/hrsuite/bulkupload/internal/sharepoint"
)

var (
	// ErrNoBatch is returned when a dispatch is requested with nothing ready.
	ErrNoBatch = errors.New("no records ready to upload")

	// ErrDispatchInFlight rejects a re-entrant dispatch.
	ErrDispatchInFlight = errors.New("a dispatch is already running")
)

// Uploader runs the ingestion pipeline over a workbook payload.
type Uploader interface {
	Process(payload []byte) (ingestion.Result, error)
}

// BatchDispatcher pushes a batch to the store.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, records []domain.Employee, strategy dispatch.Strategy, onProgress dispatch.ProgressFunc) (dispatch.Result, error)
}

// Roster reads the full remote list.
type Roster interface {
	FetchAll(ctx context.Context) ([]sharepoint.Item, error)
}

// Acknowledgment is the batch-level completion signal. It deliberately carries
// no per-item detail; individual write failures are diagnostics only.
type Acknowledgment struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Session coordinates ingestion, dispatch, and the roster cache.
type Session struct {
	ingest     Uploader
	dispatcher BatchDispatcher
	roster     Roster
	logger     *zap.Logger

	mu          sync.RWMutex
	ready       []domain.Employee
	missing     []domain.MissingRowReport
	progress    float64
	dispatching bool
	items       []sharepoint.Item
}

// New wires a session from its collaborators.
func New(ingest Uploader, dispatcher BatchDispatcher, roster Roster, logger *zap.Logger) *Session {
	return &Session{
		ingest:     ingest,
		dispatcher: dispatcher,
		roster:     roster,
		logger:     logger,
	}
}

// HandleFile runs the pipeline over a newly selected file and replaces the
// session's batch state: each selection discards the previous ready records
// and rejection reports.
func (s *Session) HandleFile(name string, payload []byte) (ingestion.Result, error) {
	if !ingestion.AcceptsFile(name) {
		return ingestion.Result{}, fmt.Errorf("%w: %s", ingestion.ErrUnsupportedFormat, name)
	}

	result, err := s.ingest.Process(payload)
	if err != nil {
		return result, err
	}

	s.mu.Lock()
	s.ready = result.Ready
	s.missing = result.MissingRows
	s.mu.Unlock()
	return result, nil
}

// Dispatch runs the ready batch to completion under the chosen strategy. The
// dispatcher consumes a snapshot taken before any write begins; once the batch
// finishes the ready collection is cleared regardless of per-item results and
// the roster cache refreshes.
func (s *Session) Dispatch(ctx context.Context, strategy dispatch.Strategy) (Acknowledgment, error) {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return Acknowledgment{}, ErrDispatchInFlight
	}
	if len(s.ready) == 0 {
		s.mu.Unlock()
		return Acknowledgment{}, ErrNoBatch
	}
	snapshot := s.ready
	s.dispatching = true
	s.progress = 0
	s.mu.Unlock()

	result, err := s.dispatcher.Dispatch(ctx, snapshot, strategy, s.setProgress)

	s.mu.Lock()
	s.dispatching = false
	if err == nil {
		s.ready = nil
	}
	s.mu.Unlock()

	if err != nil {
		return Acknowledgment{}, err
	}

	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		s.logger.Warn("post-dispatch roster refresh failed", zap.Error(refreshErr))
	}

	return Acknowledgment{
		Total:     len(snapshot),
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}, nil
}

func (s *Session) setProgress(fraction float64) {
	s.mu.Lock()
	s.progress = fraction
	s.mu.Unlock()
}

// Progress returns the completed fraction of the current batch and whether a
// dispatch is active. The fraction is meaningful only while dispatching.
func (s *Session) Progress() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress, s.dispatching
}

// ReadyCount gates whether the front-end renders upload controls.
func (s *Session) ReadyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ready)
}

// MissingRows returns the rejection reports from the last file selection.
func (s *Session) MissingRows() []domain.MissingRowReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MissingRowReport, len(s.missing))
	copy(out, s.missing)
	return out
}

// Items returns the cached roster.
func (s *Session) Items() []sharepoint.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]sharepoint.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Refresh re-fetches the roster. A failing read clears the cache so stale
// data is never displayed.
func (s *Session) Refresh(ctx context.Context) error {
	items, err := s.roster.FetchAll(ctx)
	if err != nil {
		s.logger.Warn("roster fetch failed, clearing cached items", zap.Error(err))
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}
