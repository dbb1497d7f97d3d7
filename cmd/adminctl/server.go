package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	admin "github.com/doodlesbykumbi/admin-in-go"
	"github.com/doodlesbykumbi/admin-in-go/pkg/config"
	"github.com/doodlesbykumbi/admin-in-go/pkg/db"
	"github.com/doodlesbykumbi/admin-in-go/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the admin server",
	Long: `Run the admin server over the bundled demo models (users and orders).

The server requires SECRET_KEY and DATABASE_URL. The tables must already
exist; adminctl does not create or migrate them.

Example:
  adminctl server
  adminctl server --port 9000 --bind-address 127.0.0.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, host, port)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
}

// loadConfig loads the settings and sets up logging from them.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(ctx context.Context, host, port string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gormDB, err := db.Connect(db.Config{URL: cfg.DatabaseURL, Logger: logrus.StandardLogger()})
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	a, err := admin.New(gormDB, cfg, &User{}, admin.WithListenAddress(host, port))
	if err != nil {
		return err
	}
	if err := a.Register(demoModels()...); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Default().Info("Shutting down admin server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
