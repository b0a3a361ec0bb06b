package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755
)

var (
	// ConfigDir is the global configuration directory (~/.tensorwidget)
	ConfigDir string

	// DatabasePath is the SQLite database file for stored slicing specs
	DatabasePath string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string

	// SettingsFile holds display and behavior settings
	SettingsFile string

	// LogFile receives the application log; the TUI owns stdout
	LogFile string
)

// ErrInvalidSettings is returned when settings.yaml holds unusable values.
var ErrInvalidSettings = errors.New("invalid settings")

// Initialize sets up the configuration directories and files
// It creates ~/.tensorwidget/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, ".tensorwidget"))
}

// InitializeAt is Initialize with an explicit configuration directory
func InitializeAt(dir string) error {
	// Set global paths
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "specs.db")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	SettingsFile = filepath.Join(ConfigDir, "settings.yaml")
	LogFile = filepath.Join(ConfigDir, "tensorwidget.log")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create default settings file if it doesn't exist
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		data, err := yaml.Marshal(DefaultSettings())
		if err != nil {
			return fmt.Errorf("failed to encode default settings: %w", err)
		}
		if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// Settings tune how tensors are displayed
type Settings struct {
	// Precision is the number of decimals shown for float values
	Precision int `yaml:"precision"`
	// CellWidth is the width of a value column in terminal cells
	CellWidth int `yaml:"cell_width"`
	// ColumnGap is the space between value columns
	ColumnGap int `yaml:"column_gap"`
	// RestoreSpecs reopens a tensor with the slicing spec it was last viewed with
	RestoreSpecs bool `yaml:"restore_specs"`
	// StatsWorkers bounds how many tensors the stats command summarizes at once
	StatsWorkers int `yaml:"stats_workers"`
}

// DefaultSettings returns the settings used when settings.yaml is absent
func DefaultSettings() Settings {
	return Settings{
		Precision:    3,
		CellWidth:    10,
		ColumnGap:    1,
		RestoreSpecs: true,
		StatsWorkers: 4,
	}
}

// LoadSettings reads settings from path. Keys missing from the file keep
// their default values; a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return DefaultSettings(), err
	}
	return settings, nil
}

// Validate checks that every setting is in range
func (s Settings) Validate() error {
	switch {
	case s.Precision < 0 || s.Precision > 12:
		return fmt.Errorf("%w: precision %d not in [0, 12]", ErrInvalidSettings, s.Precision)
	case s.CellWidth < 4:
		return fmt.Errorf("%w: cell_width %d is below 4", ErrInvalidSettings, s.CellWidth)
	case s.ColumnGap < 0:
		return fmt.Errorf("%w: column_gap %d is negative", ErrInvalidSettings, s.ColumnGap)
	case s.StatsWorkers < 1:
		return fmt.Errorf("%w: stats_workers %d is below 1", ErrInvalidSettings, s.StatsWorkers)
	}
	return nil
}
