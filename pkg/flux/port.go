package flux

import "fmt"

// Direction indicates which way a port faces on its node.
type Direction int

const (
	// Input ports receive values or control flow.
	Input Direction = iota
	// Output ports emit values or control flow.
	Output
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// PortKind distinguishes data ports from execution ports.
// Data ports carry values; execution ports carry control flow.
type PortKind int

const (
	// KindData marks a port that carries a value.
	KindData PortKind = iota
	// KindExecution marks a port that carries control flow.
	KindExecution
)

// String returns the kind name.
func (k PortKind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// ValueType is the declared type of a data port.
type ValueType int

const (
	// TypeAny connects to everything.
	TypeAny ValueType = iota
	// TypeBool is a boolean value.
	TypeBool
	// TypeInt is a signed integer.
	TypeInt
	// TypeFloat is a single-precision number.
	TypeFloat
	// TypeDouble is a double-precision number.
	TypeDouble
	// TypeString is a text value.
	TypeString
	// TypeObject is an opaque host object.
	TypeObject
	// TypeCollection is an ordered collection of values.
	TypeCollection
)

// String returns the type name.
func (t ValueType) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeObject:
		return "object"
	case TypeCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// ParseType returns the ValueType for a type name as used in graph documents.
func ParseType(name string) (ValueType, error) {
	switch name {
	case "", "any":
		return TypeAny, nil
	case "bool":
		return TypeBool, nil
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "double":
		return TypeDouble, nil
	case "string":
		return TypeString, nil
	case "object":
		return TypeObject, nil
	case "collection":
		return TypeCollection, nil
	default:
		return TypeAny, fmt.Errorf("unknown value type %q", name)
	}
}

// isNumeric reports whether t belongs to the numeric group.
func (t ValueType) isNumeric() bool {
	return t == TypeInt || t == TypeFloat || t == TypeDouble
}

// Capacity limits how many connections a port accepts.
type Capacity int

const (
	// Single ports accept at most one connection on the input side.
	Single Capacity = iota
	// Multi ports fan out (outputs) or fan in (inputs) freely.
	Multi
)

// Port is a named, typed, directional attachment point on a node.
// Ports are plain values; a node owns its port list and the executor
// addresses ports by name, never by index.
type Port struct {
	// Name is unique within the node and direction.
	Name string
	// Label is the display label shown by an editor. Optional.
	Label string
	// Direction is Input or Output.
	Direction Direction
	// Kind is KindData or KindExecution.
	Kind PortKind
	// Type is the declared value type. Ignored for execution ports,
	// which conventionally use TypeAny.
	Type ValueType
	// Capacity limits incoming connections on input ports.
	Capacity Capacity
	// Required marks an input that must be connected for the graph
	// to validate.
	Required bool
	// Default is the value used when an input is unconnected and the
	// token carries no local value under the port name.
	Default any
	// Weight is the relative probability weight used by weighted
	// execution outputs. Zero means "unset" (equal weight).
	Weight float64
}

// DataIn builds an input data port.
func DataIn(name string, t ValueType) Port {
	return Port{Name: name, Direction: Input, Kind: KindData, Type: t}
}

// DataOut builds an output data port.
func DataOut(name string, t ValueType) Port {
	return Port{Name: name, Direction: Output, Kind: KindData, Type: t, Capacity: Multi}
}

// ExecIn builds an input execution port.
func ExecIn(name string) Port {
	return Port{Name: name, Direction: Input, Kind: KindExecution, Type: TypeAny, Capacity: Multi}
}

// ExecOut builds an output execution port.
func ExecOut(name string) Port {
	return Port{Name: name, Direction: Output, Kind: KindExecution, Type: TypeAny, Capacity: Multi}
}

// WithRequired returns a copy of the port marked required.
func (p Port) WithRequired() Port {
	p.Required = true
	return p
}

// WithDefault returns a copy of the port with a default value.
func (p Port) WithDefault(v any) Port {
	p.Default = v
	return p
}

// WithWeight returns a copy of the port with a probability weight.
func (p Port) WithWeight(w float64) Port {
	p.Weight = w
	return p
}

// CanConnect reports whether a wire from src to dst is legal.
// It is a pure function, usable both by an editor to filter candidate
// connections and by Validate to catch stale saved graphs.
//
// Rules, in order:
//  1. Directions must differ: Output into Input.
//  2. Kinds must match: data never connects to execution.
//  3. Types: exact match; either side "any"; both sides numeric
//     (int/float/double); bool against numeric-or-bool (nonzero is
//     true); either side "string".
func CanConnect(src, dst Port) bool {
	if src.Direction != Output || dst.Direction != Input {
		return false
	}
	if src.Kind != dst.Kind {
		return false
	}
	return typesCompatible(src.Type, dst.Type)
}

// typesCompatible implements the value-type half of CanConnect.
func typesCompatible(a, b ValueType) bool {
	if a == b {
		return true
	}
	if a == TypeAny || b == TypeAny {
		return true
	}
	if a.isNumeric() && b.isNumeric() {
		return true
	}
	if a == TypeBool && b.isNumeric() {
		return true
	}
	if b == TypeBool && a.isNumeric() {
		return true
	}
	if a == TypeString || b == TypeString {
		return true
	}
	return false
}
