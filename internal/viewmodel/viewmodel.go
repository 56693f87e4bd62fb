// Package viewmodel holds the state behind the reconciliation screen: the
// rows of one account over a date range, and the two selection modes used to
// build a manual match or a batch unmatch.
//
// A ViewModel is meant to be driven by one UI loop. Its state is guarded by a
// mutex so that loads and the unreconcile fan-out may complete on other
// goroutines.
package viewmodel

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"estate-reconciliation-backend/internal/models"
)

// Service is the reconciliation backend.
type Service interface {
	FetchRows(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]models.Row, error)
	AutoReconcile(ctx context.Context, accountID uuid.UUID, start, end time.Time) (int, error)
	ManualReconcile(ctx context.Context, req models.ManualReconcileRequest) error
	Unreconcile(ctx context.Context, linkID uuid.UUID) error
}

// Notifier shows transient success and failure messages.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Filter selects the account and inclusive date range to show. A nil
// account id or a zero date means the filter is incomplete.
type Filter struct {
	AccountID uuid.UUID
	Start     time.Time
	End       time.Time
}

func (f Filter) Complete() bool {
	return f.AccountID != uuid.Nil && !f.Start.IsZero() && !f.End.IsZero()
}

// clamped moves End up to Start when the range is inverted.
func (f Filter) clamped() Filter {
	if f.Complete() && f.End.Before(f.Start) {
		f.End = f.Start
	}
	return f
}

type DisplayState int

const (
	// StatePrompt means the filter is incomplete and nothing was fetched.
	StatePrompt DisplayState = iota
	StateEmpty
	StateRows
)

func (s DisplayState) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StateEmpty:
		return "empty"
	}
	return "rows"
}

type ViewModel struct {
	svc    Service
	notify Notifier

	mu         sync.Mutex
	filter     Filter
	generation uint64
	fetched    bool
	rows       []models.Row

	selectedBank     *models.BankStatementLine
	selectedInternal *models.InternalTransaction
	selectedLinks    map[uuid.UUID]struct{}
}

func New(svc Service, notify Notifier) *ViewModel {
	return &ViewModel{
		svc:           svc,
		notify:        notify,
		selectedLinks: map[uuid.UUID]struct{}{},
	}
}

// Load replaces the rows with those of f, sorted by effective date, and
// clears both selections. An incomplete filter shows the prompt without
// fetching. When loads overlap only the most recently started one is
// applied.
func (vm *ViewModel) Load(ctx context.Context, f Filter) {
	f = f.clamped()

	vm.mu.Lock()
	vm.filter = f
	vm.generation++
	gen := vm.generation
	vm.clearSelectionLocked()
	if !f.Complete() {
		vm.rows = nil
		vm.fetched = false
		vm.mu.Unlock()
		return
	}
	vm.mu.Unlock()

	rows, err := vm.svc.FetchRows(ctx, f.AccountID, f.Start, f.End)

	vm.mu.Lock()
	if gen != vm.generation {
		vm.mu.Unlock()
		logrus.WithField("generation", gen).Debug("discarding stale reconciliation load")
		return
	}
	vm.fetched = true
	vm.clearSelectionLocked()
	if err != nil {
		vm.rows = nil
		vm.mu.Unlock()
		logrus.WithError(err).WithField("account_id", f.AccountID).Warn("loading reconciliation rows")
		vm.notify.Failure("Failed to load reconciliation data: " + err.Error())
		return
	}
	sorted := append([]models.Row(nil), rows...)
	models.SortRows(sorted)
	vm.rows = sorted
	vm.mu.Unlock()
}

// Reload fetches the current filter again.
func (vm *ViewModel) Reload(ctx context.Context) {
	vm.Load(ctx, vm.Filter())
}

func (vm *ViewModel) clearSelectionLocked() {
	vm.selectedBank = nil
	vm.selectedInternal = nil
	if len(vm.selectedLinks) > 0 {
		vm.selectedLinks = map[uuid.UUID]struct{}{}
	}
}

// Click applies the selection protocol. A reconciled row toggles its link in
// the unreconcile set and drops any manual pair. An unreconciled row empties
// the unreconcile set and toggles the pick on its own side only.
func (vm *ViewModel) Click(row models.Row) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	switch r := row.(type) {
	case models.ReconciledRow:
		if _, ok := vm.selectedLinks[r.ID]; ok {
			delete(vm.selectedLinks, r.ID)
		} else {
			vm.selectedLinks[r.ID] = struct{}{}
		}
		vm.selectedBank = nil
		vm.selectedInternal = nil
	case models.UnreconciledBankRow:
		vm.selectedLinks = map[uuid.UUID]struct{}{}
		if vm.selectedBank != nil && vm.selectedBank.ID == r.Bank.ID {
			vm.selectedBank = nil
		} else {
			bank := r.Bank
			vm.selectedBank = &bank
		}
	case models.UnreconciledInternalRow:
		vm.selectedLinks = map[uuid.UUID]struct{}{}
		if sameInternal(vm.selectedInternal, r.Internal) {
			vm.selectedInternal = nil
		} else {
			it := r.Internal
			vm.selectedInternal = &it
		}
	}
}

func sameInternal(picked *models.InternalTransaction, it models.InternalTransaction) bool {
	return picked != nil && picked.ID == it.ID && picked.Kind == it.Kind
}

func (vm *ViewModel) Filter() Filter {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.filter
}

// Rows returns a copy of the current rows in display order.
func (vm *ViewModel) Rows() []models.Row {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]models.Row(nil), vm.rows...)
}

func (vm *ViewModel) State() DisplayState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	switch {
	case !vm.filter.Complete() || !vm.fetched:
		return StatePrompt
	case len(vm.rows) == 0:
		return StateEmpty
	}
	return StateRows
}

func (vm *ViewModel) SelectedBank() *models.BankStatementLine {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.selectedBank == nil {
		return nil
	}
	bank := *vm.selectedBank
	return &bank
}

func (vm *ViewModel) SelectedInternal() *models.InternalTransaction {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.selectedInternal == nil {
		return nil
	}
	it := *vm.selectedInternal
	return &it
}

// SelectedForUnreconcile returns the staged link ids in a stable order.
func (vm *ViewModel) SelectedForUnreconcile() []uuid.UUID {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.selectedLinkIDsLocked()
}

func (vm *ViewModel) selectedLinkIDsLocked() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(vm.selectedLinks))
	for id := range vm.selectedLinks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
