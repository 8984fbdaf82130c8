// Package graphio loads graph documents from YAML or JSON and builds
// runnable graphs out of registered behavior constructors.
//
// A document holds one or more graph definitions. Within a document,
// later graphs may call earlier ones by name, so libraries of
// sub-graphs and the graphs that use them ship in one file.
package graphio

import "fmt"

// Document is the serialized form of a set of graphs.
type Document struct {
	Graphs []GraphDef `yaml:"graphs" json:"graphs"`
}

// GraphDef is one graph definition.
type GraphDef struct {
	Name        string          `yaml:"name" json:"name"`
	Nodes       []NodeDef       `yaml:"nodes" json:"nodes"`
	Connections []ConnectionDef `yaml:"connections" json:"connections"`
}

// NodeDef is one node definition. Type names a registered behavior
// constructor; Config is passed through to it.
type NodeDef struct {
	ID       string         `yaml:"id" json:"id"`
	Type     string         `yaml:"type" json:"type"`
	Name     string         `yaml:"name,omitempty" json:"name,omitempty"`
	Category string         `yaml:"category,omitempty" json:"category,omitempty"`
	Position []float64      `yaml:"position,omitempty" json:"position,omitempty"`
	Config   map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

// ConnectionDef is one wire between two node ports.
type ConnectionDef struct {
	From     string `yaml:"from" json:"from"`
	FromPort string `yaml:"from_port" json:"from_port"`
	To       string `yaml:"to" json:"to"`
	ToPort   string `yaml:"to_port" json:"to_port"`
}

func (d *Document) validate() error {
	if len(d.Graphs) == 0 {
		return fmt.Errorf("document has no graphs")
	}
	seen := make(map[string]bool, len(d.Graphs))
	for _, g := range d.Graphs {
		if g.Name == "" {
			return fmt.Errorf("graph with empty name")
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate graph name %q", g.Name)
		}
		seen[g.Name] = true
	}
	return nil
}
