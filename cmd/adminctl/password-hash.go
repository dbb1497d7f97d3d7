package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/admin-in-go/pkg/auth"
)

// passwordHashCmd represents the password hash command
var passwordHashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Hash a password read from STDIN",
	Long: `
Hash a password read from STDIN

Prints the bcrypt digest in the form stored in the user model's password
column. Only the first line of input is used.

Example:

$ echo -n 's3cret' | adminctl password hash
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		digest, err := hashFromReader(cmd.InOrStdin())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), digest)
		return nil
	},
}

func init() {
	passwordCmd.AddCommand(passwordHashCmd)
}

func hashFromReader(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is empty")
	}
	return auth.HashPassword(password)
}
