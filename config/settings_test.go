package config

import (
	"testing"

	"github.com/spf13/afero"
)

func TestLoadCreatesDefaultsWhenMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := NewManagerWithFs(fsys, "conf/settings.json")

	s, err := m.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Server.Port != 8787 || s.Catalog.BaseURL == "" {
		t.Fatalf("unexpected defaults %+v", s)
	}

	if ok, _ := afero.Exists(fsys, "conf/settings.json"); !ok {
		t.Fatal("expected settings file to be created")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	fsys := afero.NewMemMapFs()
	m := NewManagerWithFs(fsys, "settings.json")

	s := DefaultSettings()
	s.Catalog.APIKey = "secret"
	s.Cache.StalenessMinutes = 42
	if err := m.Save(s); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := m.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Catalog.APIKey != "secret" || got.Cache.StalenessMinutes != 42 {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "settings.json", []byte(`{"catalog":{"apiKey":"k"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m := NewManagerWithFs(fsys, "settings.json")

	s, err := m.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if s.Catalog.APIKey != "k" {
		t.Fatalf("existing value lost: %+v", s.Catalog)
	}
	if s.Server.Port == 0 || s.Catalog.BaseURL == "" || s.Search.DebounceMillis == 0 {
		t.Fatalf("missing fields not backfilled: %+v", s)
	}
}
