package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"estate-reconciliation-backend/internal/client"
	"estate-reconciliation-backend/internal/logging"
	"estate-reconciliation-backend/internal/session"
)

const defaultAPIURL = "http://localhost:8080/api"

// errReported marks a failure the notifier already showed.
var errReported = errors.New("reported")

type options struct {
	apiURL      string
	sessionPath string
	logLevel    string
}

func Execute() {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "recon",
		Short:         "Bank reconciliation console for the estate back office",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(opts.logLevel, "text")
		},
	}

	apiURL := os.Getenv("RECON_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", apiURL, "reconciliation API base URL (env RECON_API_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.sessionPath, "session", session.DefaultPath(), "session file path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")

	rootCmd.AddCommand(newLoginCmd(opts))
	rootCmd.AddCommand(newLogoutCmd(opts))
	rootCmd.AddCommand(newWhoamiCmd(opts))
	rootCmd.AddCommand(newAccountsCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newAutoCmd(opts))
	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newUnmatchCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newReviewCmd(opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			pterm.Error.Println(capitalize(err.Error()))
		}
		stop()
		os.Exit(1)
	}
}

// connect loads the saved session and checks it grants permission.
func connect(opts *options, permission string) (*client.Client, *session.Session, error) {
	s, err := session.Load(opts.sessionPath)
	if err != nil {
		return nil, nil, err
	}
	if !s.Has(permission) {
		return nil, nil, fmt.Errorf("session for %s lacks %s", s.Operator, permission)
	}
	return client.New(opts.apiURL, s), s, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return strings.TrimSpace(string(r))
}
