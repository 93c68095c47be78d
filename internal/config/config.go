// Package config loads the jctl configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry layouts the journal knows about. new/new-electronic/new-scan pick
// one of these for the Jekyll front matter.
const (
	LayoutEntry      = "entry"
	LayoutElectronic = "electronic"
	LayoutScan       = "scan"
)

// AppConfig defines the jctl configuration options.
type AppConfig struct {
	JournalDir    string // Directory holding the journal entries
	Editor        string // Editor for entries; falls back to $EDITOR
	Extension     string // Entry file extension, dot included
	DefaultLayout string // Front matter layout used by `jctl new`
	DebugLog      string // Debug log file path
	ShowIcons     bool   // Render Nerd Font icons in the entry picker
	Verbose       bool   // Mirror debug messages to stderr
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	home, _ := os.UserHomeDir()
	return &AppConfig{
		JournalDir:    filepath.Join(home, "journal"),
		Editor:        os.Getenv("EDITOR"),
		Extension:     ".md",
		DefaultLayout: LayoutEntry,
		ShowIcons:     true,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()

	if journalDir, ok := data["journal_dir"].(string); ok {
		journalDir = strings.TrimSpace(journalDir)
		if journalDir != "" {
			cfg.JournalDir = journalDir
		}
	}
	if editor, ok := data["editor"].(string); ok {
		editor = strings.TrimSpace(editor)
		if editor != "" {
			cfg.Editor = editor
		}
	}
	if extension, ok := data["extension"].(string); ok {
		extension = strings.TrimSpace(extension)
		if extension != "" {
			if !strings.HasPrefix(extension, ".") {
				extension = "." + extension
			}
			cfg.Extension = extension
		}
	}
	if layout, ok := data["default_layout"].(string); ok {
		layout = strings.ToLower(strings.TrimSpace(layout))
		switch layout {
		case LayoutEntry, LayoutElectronic, LayoutScan:
			cfg.DefaultLayout = layout
		}
	}
	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}

	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.Verbose = coerceBool(data["verbose"], false)

	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file. With an
// empty path it tries config.yaml then config.yml under the jctl config
// directory; a missing file yields the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string

	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		paths = []string{expanded}
	} else {
		configBase := filepath.Join(getConfigDir(), "jctl")
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path comes from the user's own flag or config dir
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
		}

		return parseConfig(yamlData), nil
	}

	return DefaultConfig(), nil
}

// ExpandPath expands a leading ~ and any environment variables in path.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
