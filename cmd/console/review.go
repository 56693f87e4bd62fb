package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/session"
	"estate-reconciliation-backend/internal/viewmodel"
)

const (
	actionPick    = "pick"
	actionManual  = "manual"
	actionAuto    = "auto"
	actionUnmatch = "unmatch"
	actionReload  = "reload"
	actionQuit    = "quit"
)

func newReviewCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactively pick rows to match or unmatch",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, _, err := open(cmd.Context(), opts, flags, session.PermissionWrite)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			for {
				if err := renderRows(vm); err != nil {
					return err
				}
				printSelection(vm)

				action, err := promptAction(vm)
				if err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}

				switch action {
				case actionPick:
					row, err := promptRow(vm)
					if err != nil {
						if errors.Is(err, huh.ErrUserAborted) {
							continue
						}
						return err
					}
					vm.Click(row)
				case actionManual:
					vm.ManualReconcile(ctx)
				case actionAuto:
					vm.AutoReconcile(ctx)
				case actionUnmatch:
					vm.Unreconcile(ctx)
				case actionReload:
					vm.Reload(ctx)
				case actionQuit:
					return nil
				}
			}
		},
	}
	flags.register(cmd)
	return cmd
}

func promptAction(vm *viewmodel.ViewModel) (string, error) {
	options := []huh.Option[string]{}
	if len(vm.Rows()) > 0 {
		options = append(options, huh.NewOption("Select a row", actionPick))
	}
	if vm.CanManualReconcile() {
		options = append(options, huh.NewOption("Reconcile selected pair", actionManual))
	}
	if vm.CanUnreconcile() {
		options = append(options, huh.NewOption(fmt.Sprintf("Unreconcile %d selected", len(vm.SelectedForUnreconcile())), actionUnmatch))
	}
	if vm.CanAutoReconcile() {
		options = append(options, huh.NewOption("Auto reconcile range", actionAuto))
	}
	options = append(options,
		huh.NewOption("Reload", actionReload),
		huh.NewOption("Quit", actionQuit),
	)

	var action string
	err := huh.NewSelect[string]().
		Title("Action:").
		Options(options...).
		Value(&action).
		Run()
	return action, err
}

func promptRow(vm *viewmodel.ViewModel) (models.Row, error) {
	rows := vm.Rows()
	options := make([]huh.Option[int], 0, len(rows))
	for i, row := range rows {
		options = append(options, huh.NewOption(rowLabel(i, row, vm.Classify(row)), i))
	}

	var picked int
	err := huh.NewSelect[int]().
		Title("Row:").
		Options(options...).
		Value(&picked).
		Height(15).
		Run()
	if err != nil {
		return nil, err
	}
	return rows[picked], nil
}

func rowLabel(i int, row models.Row, class viewmodel.RowClass) string {
	cells := rowCells(row)
	parts := []string{fmt.Sprintf("%3d", i+1), class.String()}
	for _, c := range []string{cells[2], cells[3], cells[4], cells[5], cells[6], cells[8], cells[9]} {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "  ")
}

func printSelection(vm *viewmodel.ViewModel) {
	if bank := vm.SelectedBank(); bank != nil {
		pterm.Info.Printf("Bank line: %s %s %s\n", bank.PostDate.Format("2006-01-02"), bank.Remarks, bank.Amount().StringFixed(2))
	}
	if it := vm.SelectedInternal(); it != nil {
		pterm.Info.Printf("%s: %s %s %s\n", it.Kind, it.Date.Format("2006-01-02"), it.Description, it.Amount.StringFixed(2))
	}
	if ids := vm.SelectedForUnreconcile(); len(ids) > 0 {
		pterm.Info.Printf("%d reconciliation(s) staged for removal\n", len(ids))
	}
}
