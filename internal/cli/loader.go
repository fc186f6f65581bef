package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-wearables/core"
	"gopkg.in/yaml.v3"
)

type integrationDocument struct {
	Integrations []core.WearableIntegration `json:"integrations" yaml:"integrations"`
}

// LoadIntegrationsFile reads path, or stdin when path is "-". Files ending
// in .json are decoded as JSON, everything else as YAML.
func LoadIntegrationsFile(path string, stdin io.Reader) ([]core.WearableIntegration, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read integrations %q: %w", path, err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return DecodeIntegrations(data, format)
}

// DecodeIntegrations accepts a bare list or a document with an
// "integrations" key.
func DecodeIntegrations(data []byte, format string) ([]core.WearableIntegration, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("integration list is empty")
	}
	if format == "json" {
		return decodeJSONIntegrations(data)
	}
	return decodeYAMLIntegrations(data)
}

func decodeJSONIntegrations(data []byte) ([]core.WearableIntegration, error) {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' {
		var list []core.WearableIntegration
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json integrations: %w", err)
		}
		return list, nil
	}
	var doc integrationDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode json integrations: %w", err)
	}
	return doc.Integrations, nil
}

func decodeYAMLIntegrations(data []byte) ([]core.WearableIntegration, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode yaml integrations: %w", err)
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		var list []core.WearableIntegration
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode yaml integrations: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var doc integrationDocument
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml integrations: %w", err)
		}
		return doc.Integrations, nil
	default:
		return nil, fmt.Errorf("decode yaml integrations: expected a list or mapping")
	}
}
