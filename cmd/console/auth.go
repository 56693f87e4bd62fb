package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"estate-reconciliation-backend/internal/session"
)

func newLoginCmd(opts *options) *cobra.Command {
	var (
		token       string
		operator    string
		permissions []string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save the API token and operator name for later commands",
		Example: `  recon login --token "$RECON_API_TOKEN" --operator siti
  recon login --token t0k --operator auditor --permission reconciliation:read`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if operator == "" {
				return fmt.Errorf("--operator is required")
			}
			s := &session.Session{Token: token, Operator: operator, Permissions: permissions}
			if err := s.Save(opts.sessionPath); err != nil {
				return err
			}
			pterm.Success.Printf("Logged in as %s\n", operator)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "API bearer token")
	cmd.Flags().StringVar(&operator, "operator", "", "name recorded in the audit log")
	cmd.Flags().StringSliceVar(&permissions, "permission",
		[]string{session.PermissionRead, session.PermissionWrite}, "granted permissions")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session.Clear(opts.sessionPath); err != nil {
				return err
			}
			pterm.Success.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := session.Load(opts.sessionPath)
			if err != nil {
				return err
			}
			return pterm.DefaultTable.WithData(pterm.TableData{
				{"Operator", s.Operator},
				{"Token", maskToken(s.Token)},
				{"Permissions", fmt.Sprint(s.Permissions)},
			}).Render()
		},
	}
}

func maskToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
