package integration

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	admin "github.com/doodlesbykumbi/admin-in-go"
	"github.com/doodlesbykumbi/admin-in-go/pkg/config"
	"github.com/doodlesbykumbi/admin-in-go/pkg/db"
)

// portCounter is used to allocate unique ports for binary servers
var portCounter int32 = 19000

// ServerInstance represents a running admin server for a single scenario
type ServerInstance struct {
	ServerURL     string
	httpServer    *httptest.Server
	db            *gorm.DB
	cancel        context.CancelFunc
	serverProcess *exec.Cmd
}

// StartServer starts an admin server over the suite database, in-process or
// from the adminctl binary depending on how the suite was started.
func StartServer(tc *TestContext) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc)
	}
	return startBinaryServerInstance(tc)
}

func startInlineServerInstance(tc *TestContext) (*ServerInstance, error) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	gormDB, err := db.Connect(db.Config{URL: tc.DatabaseURL, Logger: quiet})
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		SecretKey:              tc.SecretKey,
		DatabaseURL:            tc.DatabaseURL,
		TokenExpirationMinutes: config.DefaultTokenExpirationMinutes,
		LogLevel:               "error",
		LogFormat:              "text",
	}

	a, err := admin.New(gormDB, cfg, &User{}, admin.WithLogger(quiet))
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	if err := a.Register(&Order{}); err != nil {
		return nil, err
	}

	ts := httptest.NewServer(a.Handler())
	return &ServerInstance{ServerURL: ts.URL, httpServer: ts, db: gormDB}, nil
}

func startBinaryServerInstance(tc *TestContext) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := fmt.Sprintf("%d", port)

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"SECRET_KEY="+tc.SecretKey,
		"ADMIN_CONFIG_PATH="+os.TempDir(),
		"ADMIN_ENV_FILE=/nonexistent",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.httpServer != nil {
		si.httpServer.Close()
	}
	if si.db != nil {
		if sqlDB, err := si.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}
