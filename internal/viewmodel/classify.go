package viewmodel

import "estate-reconciliation-backend/internal/models"

// RowClass is how a row is drawn given the current selection.
type RowClass int

const (
	ClassReconciled RowClass = iota
	ClassUnreconciledBank
	ClassUnreconciledInternal
	ClassSelectedForManual
	ClassSelectedForUnreconcile
)

func (c RowClass) String() string {
	switch c {
	case ClassReconciled:
		return "reconciled"
	case ClassUnreconciledBank:
		return "unreconciled-bank-only"
	case ClassUnreconciledInternal:
		return "unreconciled-internal-only"
	case ClassSelectedForManual:
		return "selected-for-manual"
	case ClassSelectedForUnreconcile:
		return "selected-for-unreconcile"
	}
	return "unknown"
}

func (vm *ViewModel) Classify(row models.Row) RowClass {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	switch r := row.(type) {
	case models.ReconciledRow:
		if _, ok := vm.selectedLinks[r.ID]; ok {
			return ClassSelectedForUnreconcile
		}
		return ClassReconciled
	case models.UnreconciledBankRow:
		if vm.selectedBank != nil && vm.selectedBank.ID == r.Bank.ID {
			return ClassSelectedForManual
		}
		return ClassUnreconciledBank
	case models.UnreconciledInternalRow:
		if sameInternal(vm.selectedInternal, r.Internal) {
			return ClassSelectedForManual
		}
	}
	return ClassUnreconciledInternal
}
