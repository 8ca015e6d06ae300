package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server  ServerSettings  `json:"server"`
	Catalog CatalogSettings `json:"catalog"`
	Cache   CacheSettings   `json:"cache"`
	Search  SearchSettings  `json:"search"`
	Log     LogSettings     `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type CatalogSettings struct {
	BaseURL        string `json:"baseUrl"`
	APIKey         string `json:"apiKey"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

type CacheSettings struct {
	// StalenessMinutes is the in-memory staleness window for homepage and
	// search results. 0 disables caching.
	StalenessMinutes int `json:"stalenessMinutes"`
}

type SearchSettings struct {
	DebounceMillis int `json:"debounceMillis"`
}

type LogSettings struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"` // megabytes
	MaxBackups int    `json:"maxBackups"`
	MaxAge     int    `json:"maxAge"` // days
	Compress   bool   `json:"compress"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 8787,
		},
		Catalog: CatalogSettings{
			BaseURL:        "https://www.omdbapi.com",
			TimeoutSeconds: 15,
		},
		Cache: CacheSettings{
			StalenessMinutes: 10,
		},
		Search: SearchSettings{
			DebounceMillis: 400,
		},
		Log: LogSettings{
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		},
	}
}

// Manager loads and saves the settings file. The filesystem is injectable so
// tests can run against an in-memory fs.
type Manager struct {
	fs   afero.Fs
	path string
}

func NewManager(configPath string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), configPath)
}

func NewManagerWithFs(fsys afero.Fs, configPath string) *Manager {
	return &Manager{fs: fsys, path: configPath}
}

// EnsureDir ensures the parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return m.fs.MkdirAll(dir, 0o755)
}

// Load reads the settings file, creating it with defaults when missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := m.fs.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	data, err := afero.ReadFile(m.fs, m.path)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}

	// Backfill fields older settings files may lack.
	defaults := DefaultSettings()
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if s.Catalog.BaseURL == "" {
		s.Catalog.BaseURL = defaults.Catalog.BaseURL
	}
	if s.Catalog.TimeoutSeconds == 0 {
		s.Catalog.TimeoutSeconds = defaults.Catalog.TimeoutSeconds
	}
	if s.Search.DebounceMillis == 0 {
		s.Search.DebounceMillis = defaults.Search.DebounceMillis
	}
	return s, nil
}

// Save writes the settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return m.fs.Rename(tmp, m.path)
}
