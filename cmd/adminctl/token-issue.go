package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token without logging in",
	Long: `Issue a bearer token signed with SECRET_KEY.

The subject is not checked against the database. The token is printed to
STDOUT and its expiry to STDERR.

Example:
  adminctl token issue --subject 1 --superuser
  export ADMIN_TOKEN="$(adminctl token issue -s 1 --superuser)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		superuser, _ := cmd.Flags().GetBool("superuser")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		issuer := auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenTTL())
		token, expires, err := issueToken(issuer, subject, superuser)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Token expires at %s\n", expires.UTC().Format(time.RFC3339))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenIssueCmd.Flags().StringP("subject", "s", "", "Subject (user primary key) of the token")
	tokenIssueCmd.Flags().Bool("superuser", false, "Set the superuser claim")
}

func issueToken(issuer *auth.Issuer, subject string, superuser bool) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("--subject is required")
	}
	return issuer.Issue(subject, superuser)
}
