package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.molepuzzle/config.yaml -> ~/.molepuzzle/config.toml
// -> ./configs/molepuzzle.yaml -> embedded default.
//
// Fields missing from a file keep their default values. A custom path that
// cannot be read or parsed is an error; the other locations are best-effort.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		cfg, err := decodeFile(customPath)
		if err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	candidates := []string{
		userPath("config.yaml"),
		userPath("config.toml"),
		filepath.Join("configs", "molepuzzle.yaml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, err := decodeFile(path); err == nil {
			return cfg, nil
		}
	}

	return Default(), nil
}

// Save writes cfg as YAML (or TOML when path ends in .toml), creating parent
// directories as needed.
func Save(path string, cfg Config) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory for %s: %w", path, err)
	}

	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return fmt.Errorf("config: cannot encode %s: %w", path, err)
		}
		data = []byte(sb.String())
	} else {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("config: cannot encode %s: %w", path, err)
		}
		data = out
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: cannot write %s: %w", path, err)
	}
	return nil
}

// presetFile is the on-disk layout of user presets.
type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// LoadPresets reads user presets from a YAML file. A missing file yields an
// empty book.
func LoadPresets(path string) (*PresetBook, error) {
	path = ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewPresetBook(), nil
		}
		return nil, fmt.Errorf("config: failed to read presets %s: %w", path, err)
	}

	var pf presetFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("config: failed to parse presets %s: %w", path, err)
	}
	return NewPresetBook(pf.Presets...), nil
}

// SavePresets writes the user presets of book to a YAML file.
func SavePresets(path string, book *PresetBook) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory for %s: %w", path, err)
	}
	data, err := yaml.Marshal(presetFile{Presets: book.User()})
	if err != nil {
		return fmt.Errorf("config: cannot encode presets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: cannot write presets %s: %w", path, err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func decodeFile(path string) (Config, error) {
	path = ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// userPath returns the path to a file in the user config directory, or empty
// if home is unavailable.
func userPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".molepuzzle", filename)
}
