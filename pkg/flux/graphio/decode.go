package graphio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
	"github.com/LionsGamesStudio/flux/pkg/flux/registry"
)

// Resolver maps a graph name to a graph, for call nodes whose target
// lives outside the document being decoded.
type Resolver func(name string) (*flux.Graph, error)

// Constructor builds a behavior from a node's config section. The
// resolver lets graph-calling behaviors look up their target by name.
type Constructor func(cfg config.Config, resolve Resolver) (flux.Behavior, error)

// Decoder turns documents into graphs.
type Decoder struct {
	// Types maps node type names to behavior constructors. NewDecoder
	// seeds it with the built-in library; callers register their own
	// domain behaviors on top.
	Types *registry.Registry[string, Constructor]

	// Resolve handles call targets not defined in the document.
	// Optional; without it an unknown target is an error.
	Resolve Resolver
}

// NewDecoder returns a decoder with the built-in node types
// registered.
func NewDecoder() *Decoder {
	d := &Decoder{Types: registry.New[string, Constructor]()}
	registerBuiltins(d.Types)
	return d
}

// DecodeFile reads a document from a YAML or JSON file, by extension,
// and builds every graph it defines.
func (d *Decoder) DecodeFile(path string) (map[string]*flux.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return d.DecodeJSON(data)
	default:
		return d.DecodeYAML(data)
	}
}

// DecodeYAML parses a YAML document and builds its graphs.
func (d *Decoder) DecodeYAML(data []byte) (map[string]*flux.Graph, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse graph yaml: %w", err)
	}
	return d.Decode(&doc)
}

// DecodeJSON parses a JSON document and builds its graphs.
func (d *Decoder) DecodeJSON(data []byte) (map[string]*flux.Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse graph json: %w", err)
	}
	return d.Decode(&doc)
}

// Decode builds every graph in the document, in order. A graph may
// call any graph defined before it; other targets go through Resolve.
func (d *Decoder) Decode(doc *Document) (map[string]*flux.Graph, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	built := make(map[string]*flux.Graph, len(doc.Graphs))
	resolve := func(name string) (*flux.Graph, error) {
		if g, ok := built[name]; ok {
			return g, nil
		}
		if d.Resolve != nil {
			return d.Resolve(name)
		}
		return nil, fmt.Errorf("unknown graph %q", name)
	}

	for _, def := range doc.Graphs {
		g, err := d.decodeGraph(&def, resolve)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", def.Name, err)
		}
		built[def.Name] = g
	}
	return built, nil
}

func (d *Decoder) decodeGraph(def *GraphDef, resolve Resolver) (*flux.Graph, error) {
	g := flux.NewGraph(def.Name)

	for _, nd := range def.Nodes {
		if nd.ID == "" {
			return nil, fmt.Errorf("node with empty id")
		}
		ctor, ok := d.Types.Get(nd.Type)
		if !ok {
			return nil, fmt.Errorf("node %s: unknown type %q", nd.ID, nd.Type)
		}
		cfg := config.New(nd.Config)
		behavior, err := ctor(cfg, resolve)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}

		opts := []flux.NodeOption{flux.WithConfig(cfg)}
		if nd.Name != "" {
			opts = append(opts, flux.WithName(nd.Name))
		}
		if nd.Category != "" {
			opts = append(opts, flux.WithCategory(nd.Category))
		}
		if len(nd.Position) == 2 {
			opts = append(opts, flux.WithPosition(nd.Position[0], nd.Position[1]))
		}
		g.AddNode(flux.NewNode(nd.ID, behavior, opts...))
	}

	for _, c := range def.Connections {
		if _, ok := g.Node(c.From); !ok {
			return nil, fmt.Errorf("connection %s.%s -> %s.%s: unknown node %q",
				c.From, c.FromPort, c.To, c.ToPort, c.From)
		}
		if _, ok := g.Node(c.To); !ok {
			return nil, fmt.Errorf("connection %s.%s -> %s.%s: unknown node %q",
				c.From, c.FromPort, c.To, c.ToPort, c.To)
		}
		g.Connect(c.From, c.FromPort, c.To, c.ToPort)
	}
	return g, nil
}
