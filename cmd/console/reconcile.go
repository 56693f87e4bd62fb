package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/session"
	"estate-reconciliation-backend/internal/viewmodel"
)

// open connects, builds a view-model and loads the filter from the flags.
func open(ctx context.Context, opts *options, flags *filterFlags, permission string) (*viewmodel.ViewModel, *notifier, error) {
	f, err := flags.parse()
	if err != nil {
		return nil, nil, err
	}
	api, _, err := connect(opts, permission)
	if err != nil {
		return nil, nil, err
	}
	n := &notifier{}
	vm := viewmodel.New(api, n)
	vm.Load(ctx, f)
	return vm, n, nil
}

func newAccountsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List bank accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(opts, session.PermissionRead)
			if err != nil {
				return err
			}
			accounts, err := api.ListAccounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			if len(accounts) == 0 {
				pterm.Warning.Println("No accounts found")
				return nil
			}
			data := pterm.TableData{{"ID", "Name", "Bank", "Number"}}
			for _, a := range accounts {
				data = append(data, []string{a.ID.String(), a.Name, a.BankName, a.AccountNumber})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Show bank lines and ledger entries for an account and range",
		Example: `  recon show --account 6f1c... --from 2024-06-01 --to 2024-06-30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, n, err := open(cmd.Context(), opts, flags, session.PermissionRead)
			if err != nil {
				return err
			}
			if err := renderRows(vm); err != nil {
				return err
			}
			return n.result()
		},
	}
	flags.register(cmd)
	return cmd
}

func newAutoCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Run automatic matching over the range",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, n, err := open(cmd.Context(), opts, flags, session.PermissionWrite)
			if err != nil {
				return err
			}
			if !vm.CanAutoReconcile() {
				return fmt.Errorf("--account, --from and --to are required")
			}
			vm.AutoReconcile(cmd.Context())
			if err := renderRows(vm); err != nil {
				return err
			}
			return n.result()
		},
	}
	flags.register(cmd)
	return cmd
}

func newMatchCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "match BANK_LINE_ID TRANSACTION_ID",
		Short: "Manually reconcile a bank line with a receipt or expenditure",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bankID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid bank line id %q", args[0])
			}
			internalID, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[1])
			}

			vm, n, err := open(cmd.Context(), opts, flags, session.PermissionWrite)
			if err != nil {
				return err
			}
			if err := n.result(); err != nil {
				return err
			}
			if err := stagePair(vm, bankID, internalID); err != nil {
				return err
			}
			vm.ManualReconcile(cmd.Context())
			if err := n.result(); err != nil {
				return err
			}
			return renderRows(vm)
		},
	}
	flags.register(cmd)
	return cmd
}

// stagePair clicks the unreconciled rows with the given ids.
func stagePair(vm *viewmodel.ViewModel, bankID, internalID uuid.UUID) error {
	for _, row := range vm.Rows() {
		switch r := row.(type) {
		case models.UnreconciledBankRow:
			if r.Bank.ID == bankID {
				vm.Click(r)
			}
		case models.UnreconciledInternalRow:
			if r.Internal.ID == internalID {
				vm.Click(r)
			}
		}
	}
	if vm.SelectedBank() == nil {
		return fmt.Errorf("bank line %s is not unreconciled in this range", bankID)
	}
	if vm.SelectedInternal() == nil {
		return fmt.Errorf("transaction %s is not unreconciled in this range", internalID)
	}
	return nil
}

func newUnmatchCmd(opts *options) *cobra.Command {
	flags := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "unmatch LINK_ID...",
		Short: "Remove one or more reconciliations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := map[uuid.UUID]bool{}
			for _, arg := range args {
				id, err := uuid.Parse(arg)
				if err != nil {
					return fmt.Errorf("invalid link id %q", arg)
				}
				want[id] = true
			}

			vm, n, err := open(cmd.Context(), opts, flags, session.PermissionWrite)
			if err != nil {
				return err
			}
			if err := n.result(); err != nil {
				return err
			}
			for _, row := range vm.Rows() {
				if r, ok := row.(models.ReconciledRow); ok && want[r.ID] {
					vm.Click(r)
					delete(want, r.ID)
				}
			}
			if len(want) > 0 {
				missing := make([]string, 0, len(want))
				for id := range want {
					missing = append(missing, id.String())
				}
				sort.Strings(missing)
				return fmt.Errorf("not reconciled in this range: %s", strings.Join(missing, ", "))
			}
			vm.Unreconcile(cmd.Context())
			if err := renderRows(vm); err != nil {
				return err
			}
			return n.result()
		},
	}
	flags.register(cmd)
	return cmd
}
