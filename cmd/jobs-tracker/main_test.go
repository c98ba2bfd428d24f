package main

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/jobs-tracker/internal/app"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/testutil"
)

func testConfig(t *testing.T) *common.Config {
	return &common.Config{
		Database: common.DatabaseConfig{
			Driver:      "sqlite3",
			SQLitePath:  filepath.Join(t.TempDir(), "jobs.sqlite"),
			MaxConns:    2,
			AutoMigrate: true,
		},
		Server: common.ServerConfig{
			HTTPAddr: "127.0.0.1:0",
			GRPCAddr: "127.0.0.1:0",
		},
		Records: common.RecordsConfig{ResultPolicy: "lenient"},
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	a, err := app.New(context.Background(), cfg, testutil.Logger())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg.Server, a, testutil.Logger()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeReturnsListenErrors(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(t)
	cfg.Server.GRPCAddr = busy.Addr().String()

	a, err := app.New(context.Background(), cfg, testutil.Logger())
	require.NoError(t, err)
	defer a.Close()

	err = serve(context.Background(), cfg.Server, a, testutil.Logger())
	assert.Error(t, err)
}

func TestRunClosesStoreWhenGRPCCannotListen(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := testConfig(t)
	cfg.Server.GRPCAddr = busy.Addr().String()

	err = run(context.Background(), cfg, testutil.Logger())
	assert.Error(t, err, "a bind failure is returned instead of exiting the process")
}
