package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/admin-in-go/pkg/db"
	"github.com/doodlesbykumbi/admin-in-go/pkg/registry"
	"github.com/doodlesbykumbi/admin-in-go/pkg/server/store"
	storegorm "github.com/doodlesbykumbi/admin-in-go/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin user",
	Long: `Create a user in the demo users table.

The password is hashed with bcrypt before it is stored. Pass --superuser to
create a user that can log in to the admin.

Example:
  adminctl user create --username admin --password s3cret --superuser`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		superuser, _ := cmd.Flags().GetBool("superuser")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gormDB, err := db.Connect(db.Config{URL: cfg.DatabaseURL, Logger: logrus.StandardLogger()})
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}

		reg, err := registry.New(gormDB, registry.Options{
			UserModel: &User{},
			SecretKey: cfg.SecretKey,
			TokenTTL:  cfg.TokenTTL(),
		})
		if err != nil {
			return err
		}

		user, err := createUser(cmd.Context(), storegorm.NewUsersStore(reg), reg.LoginField(), reg.SuperuserField(), username, password, superuser)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created user %v (id %v)\n", user[reg.LoginField()], user["id"])
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("username", "u", "", "Login name")
	userCreateCmd.Flags().StringP("password", "P", "", "Password")
	userCreateCmd.Flags().Bool("superuser", false, "Allow the user to log in to the admin")
}

func createUser(ctx context.Context, users store.UsersStore, loginField, superuserField, username, password string, superuser bool) (store.Record, error) {
	if username == "" {
		return nil, errors.New("--username is required")
	}
	if password == "" {
		return nil, errors.New("--password is required")
	}
	return users.Create(ctx, map[string]any{
		loginField:        username,
		store.PasswordKey: password,
		superuserField:    superuser,
	})
}
