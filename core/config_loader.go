package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfigLoader reads a YAML or TOML file into the raw map consumed by
// CfgxConfigProvider. The format follows the file extension. A missing file
// yields an empty map unless Required is set.
type FileConfigLoader struct {
	Path     string
	Required bool
}

func (l FileConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	path := strings.TrimSpace(l.Path)
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !l.Required {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("core: read config file %q: %w", path, err)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("core: decode yaml config %q: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("core: decode toml config %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("core: unsupported config file extension %q", ext)
	}
	return raw, nil
}

var _ RawConfigLoader = FileConfigLoader{}
