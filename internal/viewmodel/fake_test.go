package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"estate-reconciliation-backend/internal/models"
)

type fetchCall struct {
	AccountID  uuid.UUID
	Start, End time.Time
}

type fakeService struct {
	mu sync.Mutex

	rows      []models.Row
	fetchErr  error
	fetchHook func(call int) ([]models.Row, error)

	autoMatched int
	autoErr     error
	manualErr   error
	unmatchErr  map[uuid.UUID]error

	fetches   []fetchCall
	autos     int
	manuals   []models.ManualReconcileRequest
	unmatched []uuid.UUID
}

func (f *fakeService) FetchRows(_ context.Context, accountID uuid.UUID, start, end time.Time) ([]models.Row, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, fetchCall{accountID, start, end})
	call := len(f.fetches)
	hook, rows, err := f.fetchHook, f.rows, f.fetchErr
	f.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	return rows, err
}

func (f *fakeService) AutoReconcile(context.Context, uuid.UUID, time.Time, time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autos++
	return f.autoMatched, f.autoErr
}

func (f *fakeService) ManualReconcile(_ context.Context, req models.ManualReconcileRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manuals = append(f.manuals, req)
	return f.manualErr
}

func (f *fakeService) Unreconcile(_ context.Context, linkID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unmatched = append(f.unmatched, linkID)
	return f.unmatchErr[linkID]
}

func (f *fakeService) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Failure(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}
