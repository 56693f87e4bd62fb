package viewmodel

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"estate-reconciliation-backend/internal/models"
)

func (vm *ViewModel) CanManualReconcile() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.selectedBank != nil && vm.selectedInternal != nil
}

func (vm *ViewModel) CanAutoReconcile() bool {
	return vm.Filter().Complete()
}

func (vm *ViewModel) CanUnreconcile() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.selectedLinks) > 0
}

// ManualReconcile links the staged bank line and internal transaction. On
// failure the selection is kept so the operator can retry.
func (vm *ViewModel) ManualReconcile(ctx context.Context) {
	vm.mu.Lock()
	if vm.selectedBank == nil || vm.selectedInternal == nil {
		vm.mu.Unlock()
		return
	}
	req := models.NewManualReconcileRequest(*vm.selectedBank, *vm.selectedInternal)
	vm.mu.Unlock()

	if err := vm.svc.ManualReconcile(ctx, req); err != nil {
		logrus.WithError(err).WithField("bank_statement_id", req.BankStatementID).Warn("manual reconcile failed")
		vm.notify.Failure("Manual reconciliation failed: " + err.Error())
		return
	}
	vm.notify.Success("Transactions reconciled")
	vm.Reload(ctx)
}

// AutoReconcile asks the backend to match the current range and reloads
// whatever the outcome.
func (vm *ViewModel) AutoReconcile(ctx context.Context) {
	f := vm.Filter()
	if !f.Complete() {
		return
	}

	matched, err := vm.svc.AutoReconcile(ctx, f.AccountID, f.Start, f.End)
	if err != nil {
		logrus.WithError(err).WithField("account_id", f.AccountID).Warn("auto reconcile failed")
		vm.notify.Failure("Auto reconciliation failed: " + err.Error())
	} else {
		vm.notify.Success(fmt.Sprintf("Auto reconciliation matched %d transaction(s)", matched))
	}
	vm.Reload(ctx)
}

// Unreconcile removes every staged link with one independent call per link.
// Some calls may succeed while others fail; any failure is reported once and
// the rows are reloaded in every case.
func (vm *ViewModel) Unreconcile(ctx context.Context) {
	vm.mu.Lock()
	ids := vm.selectedLinkIDsLocked()
	vm.mu.Unlock()
	if len(ids) == 0 {
		return
	}

	// A plain Group: one rejection must not cancel the others.
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if err := vm.svc.Unreconcile(ctx, id); err != nil {
				logrus.WithError(err).WithField("link_id", id).Warn("unreconcile failed")
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		vm.notify.Failure("Failed to unreconcile one or more transactions")
	} else {
		vm.mu.Lock()
		vm.selectedLinks = map[uuid.UUID]struct{}{}
		vm.mu.Unlock()
		vm.notify.Success(fmt.Sprintf("Unreconciled %d transaction(s)", len(ids)))
	}
	vm.Reload(ctx)
}
