package cli

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LEDGER_TEST_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		os.Unsetenv("LEDGER_TEST_KEY")
	})

	LoadEnvFile()
	if got := os.Getenv("LEDGER_TEST_KEY"); got != "from-dotenv" {
		t.Errorf("LEDGER_TEST_KEY = %q", got)
	}
}

func TestSetupLoggerComponent(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	if l := SetupLogger("worker"); l.Component() != "worker" {
		t.Errorf("component = %q", l.Component())
	}
}

func TestGracefulShutdownRunsCleanup(t *testing.T) {
	logger := SetupLogger("test")
	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(logger, time.Second, func(context.Context) { close(cleaned) })

	if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("signal: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not finish")
	}
	if ctx.Err() == nil {
		t.Error("context not cancelled")
	}
	select {
	case <-cleaned:
	default:
		t.Error("cleanup not run")
	}
}
