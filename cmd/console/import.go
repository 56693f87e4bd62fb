package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/session"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		account string
		wait    bool
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upload a bank statement CSV (date,remarks,debit,credit,balance)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := uuid.Parse(account)
			if err != nil {
				return fmt.Errorf("--account must be an account id")
			}
			api, _, err := connect(opts, session.PermissionWrite)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			importID, err := api.UploadStatement(cmd.Context(), accountID, filepath.Base(args[0]), f)
			if err != nil {
				return fmt.Errorf("failed to upload statement: %w", err)
			}
			pterm.Info.Printf("Import %s started\n", importID)
			if !wait {
				return nil
			}

			spinner, _ := pterm.DefaultSpinner.Start("Processing statement...")
			b := backoff.WithContext(pollBackOff(), cmd.Context())
			for {
				p, err := api.ImportProgress(cmd.Context(), importID)
				if err != nil {
					spinner.Fail(err.Error())
					return errReported
				}
				if p.Status != models.ImportProcessing {
					msg := fmt.Sprintf("Import %s: %d of %d rows stored, %d rejected", p.Status, p.ProcessedCount, p.Total, p.RejectedCount)
					if p.Status == models.ImportFailed {
						spinner.Fail(msg)
						return errReported
					}
					spinner.Success(msg)
					return nil
				}
				spinner.UpdateText(fmt.Sprintf("Processing statement... %d rows stored", p.ProcessedCount))

				next := b.NextBackOff()
				if next == backoff.Stop {
					spinner.Stop()
					if err := cmd.Context().Err(); err != nil {
						return err
					}
					return fmt.Errorf("import %s still processing, check again later", importID)
				}
				time.Sleep(next)
			}
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "account id")
	cmd.Flags().BoolVar(&wait, "wait", true, "wait for processing to finish")
	return cmd
}

// pollBackOff spaces out progress checks while a large statement is stored.
func pollBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 10 * time.Minute
	b.Reset()
	return b
}
