package graphio

import (
	"fmt"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
	"github.com/LionsGamesStudio/flux/pkg/flux/nodes"
	"github.com/LionsGamesStudio/flux/pkg/flux/registry"
)

// Built-in node type names recognized by NewDecoder.
const (
	TypeLiteral  = "literal"
	TypeOperator = "op"
	TypeBranch   = "branch"
	TypeIf       = "if"
	TypeSequence = "sequence"
	TypeForEach  = "foreach"
	TypeDelay    = "delay"
	TypeTimer    = "timer"
	TypeEntry    = "entry"
	TypeExit     = "exit"
	TypeCall     = "call"
)

func registerBuiltins(r *registry.Registry[string, Constructor]) {
	r.RegisterMany(map[string]Constructor{
		TypeLiteral: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			t, err := flux.ParseType(cfg.String("type", "any"))
			if err != nil {
				return nil, err
			}
			return &nodes.Literal{Value: cfg.Any("value", nil), Type: t}, nil
		},
		TypeOperator: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			op := cfg.String("op", "")
			if op == "" {
				return nil, fmt.Errorf("operator node requires an op")
			}
			return &nodes.Operator{Op: op}, nil
		},
		TypeBranch: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			outs, err := branchOuts(cfg)
			if err != nil {
				return nil, err
			}
			return &nodes.Branch{Outs: outs}, nil
		},
		TypeIf: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			return &nodes.If{}, nil
		},
		TypeSequence: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			return &nodes.Sequence{}, nil
		},
		TypeForEach: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			return &nodes.ForEach{}, nil
		},
		TypeDelay: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			return &nodes.Delay{}, nil
		},
		TypeTimer: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			return &nodes.Timer{}, nil
		},
		TypeEntry: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			ports, err := portDefs(cfg, "outputs")
			if err != nil {
				return nil, err
			}
			return &flux.GraphEntry{Outputs: ports}, nil
		},
		TypeExit: func(cfg config.Config, _ Resolver) (flux.Behavior, error) {
			ports, err := portDefs(cfg, "inputs")
			if err != nil {
				return nil, err
			}
			return &flux.GraphExit{Inputs: ports}, nil
		},
		TypeCall: func(cfg config.Config, resolve Resolver) (flux.Behavior, error) {
			target := cfg.String("target", "")
			if target == "" {
				return nil, fmt.Errorf("call node requires a target")
			}
			g, err := resolve(target)
			if err != nil {
				return nil, err
			}
			return &flux.CallGraph{Target: g}, nil
		},
	})
}

// branchOuts reads the "outs" list of {name, weight} entries.
func branchOuts(cfg config.Config) ([]nodes.BranchOut, error) {
	raw := cfg.Slice("outs", nil)
	if len(raw) == 0 {
		return nil, fmt.Errorf("branch node requires outs")
	}
	outs := make([]nodes.BranchOut, 0, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("outs[%d]: expected a mapping", i)
		}
		ec := config.New(m)
		name := ec.String("name", "")
		if name == "" {
			return nil, fmt.Errorf("outs[%d]: missing name", i)
		}
		outs = append(outs, nodes.BranchOut{Name: name, Weight: ec.Float("weight", 0)})
	}
	return outs, nil
}

// portDefs reads a list of {name, type, default, label} entries into
// declared data ports for entry and exit nodes.
func portDefs(cfg config.Config, key string) ([]flux.Port, error) {
	raw := cfg.Slice(key, nil)
	ports := make([]flux.Port, 0, len(raw))
	for i, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a mapping", key, i)
		}
		ec := config.New(m)
		name := ec.String("name", "")
		if name == "" {
			return nil, fmt.Errorf("%s[%d]: missing name", key, i)
		}
		t, err := flux.ParseType(ec.String("type", "any"))
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		p := flux.Port{Name: name, Label: ec.String("label", ""), Type: t, Default: ec.Any("default", nil)}
		ports = append(ports, p)
	}
	return ports, nil
}
