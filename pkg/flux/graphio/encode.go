package graphio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeYAML renders a validated document as YAML, the format a graph
// store persists.
func EncodeYAML(doc *Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode graph yaml: %w", err)
	}
	return data, nil
}

// EncodeJSON renders a validated document as indented JSON.
func EncodeJSON(doc *Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode graph json: %w", err)
	}
	return data, nil
}

// EncodeFile writes a document to a YAML or JSON file, by extension.
func EncodeFile(path string, doc *Document) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = EncodeJSON(doc)
	default:
		data, err = EncodeYAML(doc)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}
