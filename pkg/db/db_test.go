package db

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "tled.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	if err := database.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	v, err := database.SchemaVersion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v != len(migrations) {
		t.Errorf("schema version = %d, want %d", v, len(migrations))
	}
}

func TestBootstrap_Defaults(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile.Name != "default" {
		t.Errorf("profile = %q", cfg.Profile.Name)
	}
	if cfg.APIAddress() != "0.0.0.0:8080" || cfg.APIPort() != 8080 {
		t.Errorf("api address = %q", cfg.APIAddress())
	}
	if cfg.String(KeyLinkKind, "") != "sim" {
		t.Errorf("link kind = %q", cfg.String(KeyLinkKind, ""))
	}
	if cfg.Int(KeySerialBaud, 0) != 115200 {
		t.Error("default baud not bootstrapped")
	}
	if !cfg.Bool(KeyMDNSEnabled, false) {
		t.Error("mdns should default to enabled")
	}

	// A second bootstrap must not duplicate anything.
	if err := database.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}
	profiles, _ := database.Profiles().List(ctx)
	if len(profiles) != 1 {
		t.Errorf("profiles = %d, want 1", len(profiles))
	}
}

func TestConfig_Accessors(t *testing.T) {
	cfg := &Config{}
	if cfg.String("x", "d") != "d" || cfg.Int("x", 3) != 3 || !cfg.Bool("x", true) {
		t.Error("defaults should apply to missing keys")
	}
	cfg.Set("x", "7")
	if cfg.Int("x", 0) != 7 {
		t.Error("override not applied")
	}
	cfg.Set("x", "nope")
	if cfg.Int("x", 5) != 5 {
		t.Error("unparseable value should fall back to default")
	}
	if cfg.APIAddress() != "0.0.0.0:8080" {
		t.Error("missing api server should use the default address")
	}
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	profile, _ := database.Profiles().GetActive(ctx)
	store := database.Settings()

	if err := store.Set(ctx, profile.ID, KeySerialPort, "/dev/ttyUSB0"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, profile.ID, KeySerialPort, "/dev/ttyACM0"); err != nil {
		t.Fatal(err)
	}

	v, err := store.Get(ctx, profile.ID, KeySerialPort)
	if err != nil || v != "/dev/ttyACM0" {
		t.Errorf("Get = %q, %v", v, err)
	}

	if err := store.Delete(ctx, profile.ID, KeySerialPort); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, profile.ID, KeySerialPort); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound, got %v", err)
	}
	if err := store.Delete(ctx, profile.ID, KeySerialPort); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound on second delete, got %v", err)
	}
}

func TestProfiles_SetActive(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	store := database.Profiles()

	shelf := &Profile{Name: "shelf"}
	if err := store.Create(ctx, shelf); err != nil {
		t.Fatal(err)
	}
	if err := store.SetActive(ctx, shelf.ID); err != nil {
		t.Fatal(err)
	}

	active, err := store.GetActive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active.Name != "shelf" {
		t.Errorf("active = %q, want shelf", active.Name)
	}

	if err := store.SetActive(ctx, 999); !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}

	// Settings of a profile go away with it.
	_ = database.Settings().Set(ctx, shelf.ID, KeyLinkKind, "serial")
	if err := store.Delete(ctx, shelf.ID); err != nil {
		t.Fatal(err)
	}
	all, _ := database.Settings().All(ctx, shelf.ID)
	if len(all) != 0 {
		t.Errorf("settings should cascade, got %v", all)
	}
}

func TestUseProfile(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	desk, err := database.UseProfile(ctx, "desk")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile.ID != desk.ID || cfg.String(KeyLinkKind, "") != "sim" || cfg.APIPort() != 8080 {
		t.Errorf("new profile not seeded: %+v", cfg)
	}

	if err := database.Settings().Set(ctx, desk.ID, KeyLinkKind, "serial"); err != nil {
		t.Fatal(err)
	}
	if _, err := database.UseProfile(ctx, DefaultProfile); err != nil {
		t.Fatal(err)
	}
	again, err := database.UseProfile(ctx, "desk")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != desk.ID {
		t.Errorf("profile recreated: id %d, want %d", again.ID, desk.ID)
	}
	cfg, _ = database.ActiveConfig(ctx)
	if cfg.String(KeyLinkKind, "") != "serial" {
		t.Errorf("existing settings overwritten: %q", cfg.String(KeyLinkKind, ""))
	}

	profiles, _ := database.Profiles().List(ctx)
	if len(profiles) != 2 {
		t.Errorf("profiles = %d, want 2", len(profiles))
	}
}

func TestStoreAssignments(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		t.Fatal(err)
	}

	err = database.StoreAssignments(ctx, cfg, []string{"mqtt.url=tcp://broker:1883", "colour=red"})
	if !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("expected ErrUnknownSetting, got %v", err)
	}
	if _, err := database.Settings().Get(ctx, cfg.Profile.ID, KeyMQTTURL); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("invalid batch must not be written, got %v", err)
	}

	if err := database.StoreAssignments(ctx, cfg, []string{" mqtt.url = tcp://broker:1883 ", "events.retention=1h"}); err != nil {
		t.Fatal(err)
	}
	if cfg.String(KeyMQTTURL, "") != "tcp://broker:1883" || cfg.Duration(KeyEventsKeep, 0) != time.Hour {
		t.Errorf("assignments not applied in memory: %v", cfg.Settings)
	}

	reloaded, _ := database.ActiveConfig(ctx)
	if reloaded.String(KeyMQTTURL, "") != "tcp://broker:1883" {
		t.Errorf("assignment not persisted: %v", reloaded.Settings)
	}

	for _, bad := range []string{"", "=x", "mqtt.url"} {
		if _, _, err := ParseAssignment(bad); err == nil {
			t.Errorf("ParseAssignment(%q) should fail", bad)
		}
	}
}

func TestAPIServers_Put(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	profile, _ := database.Profiles().GetActive(ctx)

	if err := database.APIServers().Put(ctx, &APIServer{ProfileID: profile.ID, Host: "127.0.0.1", Port: 9090}); err != nil {
		t.Fatal(err)
	}
	a, err := database.APIServers().Get(ctx, profile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if a.Address() != "127.0.0.1:9090" {
		t.Errorf("address = %q", a.Address())
	}
}

func TestEvents(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	store := database.Events()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []*DeviceEvent{
		{ID: "a", Command: "device_init", OK: true, Snapshot: json.RawMessage(`{"is_on":false}`), At: base},
		{ID: "b", Command: "device_toggle", OK: true, Args: json.RawMessage(`{"power":true}`), At: base.Add(500 * time.Millisecond)},
		{ID: "c", Command: "device_toggle", OK: false, Message: "Failed to power on/off.", At: base.Add(time.Second)},
	}
	for _, e := range events {
		if err := store.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(ctx, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
		t.Fatalf("unexpected order: %v", ids(all))
	}
	if !all[2].At.Equal(base) || string(all[2].Snapshot) != `{"is_on":false}` || all[2].Args != nil {
		t.Errorf("unexpected round trip: %+v", all[2])
	}

	toggles, _ := store.List(ctx, "device_toggle", 1)
	if len(toggles) != 1 || toggles[0].ID != "c" || toggles[0].Message != "Failed to power on/off." {
		t.Errorf("unexpected filtered list: %v", ids(toggles))
	}

	n, err := store.Prune(ctx, base.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
}

func ids(events []*DeviceEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
