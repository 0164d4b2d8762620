package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urmzd/tled/pkg/api"
	"github.com/urmzd/tled/pkg/audio"
	"github.com/urmzd/tled/pkg/command"
	"github.com/urmzd/tled/pkg/db"
	"github.com/urmzd/tled/pkg/device"
	"github.com/urmzd/tled/pkg/device/schema"
	"github.com/urmzd/tled/pkg/elk"
)

type cliTestEnv struct {
	server     *httptest.Server
	configPath string
}

// setupCLITestEnv runs a daemon over a simulated fixture.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv(envServer, "")
	t.Setenv(envToken, "")

	dir := t.TempDir()
	store, err := db.OpenAndMigrate(context.Background(), filepath.Join(dir, "tled.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	manager := device.NewManager(
		elk.NewConnector(elk.StaticOpener(elk.NewSimLink())),
		audio.NewFactory(audio.SilentSource{}, audio.WithEffects(elk.EffectIDs()...)),
	)
	broadcaster := command.NewBroadcaster()
	surface := command.New(manager, broadcaster.Handle, command.AuditListener(store.Events()))
	t.Cleanup(func() { surface.StopAudio() })

	router := api.NewRouter(command.NewDispatcher(surface, schema.NewValidator()), broadcaster, api.Options{
		Events: store.Events(),
	})
	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)

	return &cliTestEnv{server: srv, configPath: filepath.Join(dir, "cli.yaml")}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.configPath, "--server", e.server.URL}, args...))
}

func runCLI(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, got)
	}
}
