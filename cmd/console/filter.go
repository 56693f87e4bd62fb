package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"estate-reconciliation-backend/internal/client"
	"estate-reconciliation-backend/internal/viewmodel"
)

type filterFlags struct {
	account string
	from    string
	to      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "account id")
	cmd.Flags().StringVar(&f.from, "from", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day of the range (YYYY-MM-DD)")
}

// parse leaves missing parts zero so the view-model shows its prompt.
func (f *filterFlags) parse() (viewmodel.Filter, error) {
	var out viewmodel.Filter
	if f.account != "" {
		id, err := uuid.Parse(f.account)
		if err != nil {
			return out, fmt.Errorf("invalid account id %q", f.account)
		}
		out.AccountID = id
	}
	var err error
	if out.Start, err = parseDay(f.from); err != nil {
		return out, fmt.Errorf("invalid --from: %w", err)
	}
	if out.End, err = parseDay(f.to); err != nil {
		return out, fmt.Errorf("invalid --to: %w", err)
	}
	return out, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(client.DateLayout, s)
}
