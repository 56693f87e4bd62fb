package main

import (
	"github.com/pterm/pterm"

	"estate-reconciliation-backend/internal/client"
	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/viewmodel"
)

var classStyles = map[viewmodel.RowClass]*pterm.Style{
	viewmodel.ClassReconciled:             pterm.NewStyle(pterm.FgGreen),
	viewmodel.ClassUnreconciledBank:       pterm.NewStyle(pterm.FgYellow),
	viewmodel.ClassUnreconciledInternal:   pterm.NewStyle(pterm.FgLightBlue),
	viewmodel.ClassSelectedForManual:      pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold),
	viewmodel.ClassSelectedForUnreconcile: pterm.NewStyle(pterm.BgRed, pterm.FgBlack, pterm.Bold),
}

var rowHeader = []string{"#", "Status", "Link", "Bank Date", "Remarks", "Debit", "Credit", "Type", "Date", "Description", "Amount"}

// rowCells lays one row out in rowHeader order. Absent sides are blank.
func rowCells(row models.Row) []string {
	cells := make([]string, len(rowHeader)-1)
	cells[0] = string(row.Status())

	var bank *models.BankStatementLine
	var internal *models.InternalTransaction
	switch r := row.(type) {
	case models.ReconciledRow:
		cells[1] = r.ID.String()
		bank, internal = &r.Bank, &r.Internal
	case models.UnreconciledBankRow:
		bank = &r.Bank
	case models.UnreconciledInternalRow:
		internal = &r.Internal
	}
	if bank != nil {
		cells[2] = bank.PostDate.Format(client.DateLayout)
		cells[3] = bank.Remarks
		cells[4] = money(bank.Debit.IsZero(), bank.Debit.StringFixed(2))
		cells[5] = money(bank.Credit.IsZero(), bank.Credit.StringFixed(2))
	}
	if internal != nil {
		cells[6] = string(internal.Kind)
		cells[7] = internal.Date.Format(client.DateLayout)
		cells[8] = internal.Description
		cells[9] = internal.Amount.StringFixed(2)
	}
	return cells
}

func money(zero bool, s string) string {
	if zero {
		return ""
	}
	return s
}

func renderRows(vm *viewmodel.ViewModel) error {
	switch vm.State() {
	case viewmodel.StatePrompt:
		pterm.Info.Println("Select an account and a date range (--account, --from, --to)")
		return nil
	case viewmodel.StateEmpty:
		pterm.Warning.Println("No transactions in this range")
		return nil
	}

	data := pterm.TableData{rowHeader}
	for i, row := range vm.Rows() {
		style := classStyles[vm.Classify(row)]
		line := []string{pterm.Sprint(i + 1)}
		for _, cell := range rowCells(row) {
			line = append(line, style.Sprint(cell))
		}
		data = append(data, line)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
