package nodes

import (
	"errors"
	"fmt"

	flux "github.com/LionsGamesStudio/flux/pkg/flux"
	"github.com/LionsGamesStudio/flux/pkg/flux/config"
)

// ErrDivisionByZero is returned by Operator "div" with a zero divisor.
// The consuming port falls back to its default value.
var ErrDivisionByZero = errors.New("division by zero")

// Literal is a pure data node publishing a constant value.
type Literal struct {
	// Value is the constant to publish.
	Value any
	// Type is the declared type of the "value" output.
	Type flux.ValueType
}

// Ports implements flux.Behavior.
func (l *Literal) Ports(cfg config.Config) []flux.Port {
	return []flux.Port{flux.DataOut("value", l.Type)}
}

// Evaluate implements flux.Evaluator.
func (l *Literal) Evaluate(ctx flux.Context, in flux.Values, out flux.Values) error {
	out["value"] = l.Value
	return nil
}

// Operator is a pure two-operand data node. Supported operations:
// add, sub, mul, div, eq, lt, gt, and, or, concat.
//
// Numeric operations coerce both operands to float64 (nonzero bools
// count as 1); concat renders both as strings. Like every pure data
// node it is re-evaluated on each downstream request.
type Operator struct {
	// Op names the operation.
	Op string
}

// Ports implements flux.Behavior.
func (o *Operator) Ports(cfg config.Config) []flux.Port {
	result := flux.TypeDouble
	switch o.Op {
	case "eq", "lt", "gt", "and", "or":
		result = flux.TypeBool
	case "concat":
		result = flux.TypeString
	}
	return []flux.Port{
		flux.DataIn("a", flux.TypeAny),
		flux.DataIn("b", flux.TypeAny),
		flux.DataOut("result", result),
	}
}

// Evaluate implements flux.Evaluator.
func (o *Operator) Evaluate(ctx flux.Context, in flux.Values, out flux.Values) error {
	a, b := in["a"], in["b"]
	switch o.Op {
	case "add":
		out["result"] = flux.AsFloat(a) + flux.AsFloat(b)
	case "sub":
		out["result"] = flux.AsFloat(a) - flux.AsFloat(b)
	case "mul":
		out["result"] = flux.AsFloat(a) * flux.AsFloat(b)
	case "div":
		divisor := flux.AsFloat(b)
		if divisor == 0 {
			return ErrDivisionByZero
		}
		out["result"] = flux.AsFloat(a) / divisor
	case "eq":
		out["result"] = flux.AsFloat(a) == flux.AsFloat(b)
	case "lt":
		out["result"] = flux.AsFloat(a) < flux.AsFloat(b)
	case "gt":
		out["result"] = flux.AsFloat(a) > flux.AsFloat(b)
	case "and":
		out["result"] = flux.Truthy(a) && flux.Truthy(b)
	case "or":
		out["result"] = flux.Truthy(a) || flux.Truthy(b)
	case "concat":
		out["result"] = flux.AsString(a) + flux.AsString(b)
	default:
		return fmt.Errorf("unknown operator %q", o.Op)
	}
	return nil
}
