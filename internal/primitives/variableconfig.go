package primitives

import (
	"fmt"
	"math"
)

// VariableType names the value type of a configured variable.
type VariableType string

const (
	Int    VariableType = "int"
	Float  VariableType = "float"
	Bool   VariableType = "bool"
	String VariableType = "string"
)

// VariableConfig declares a chart variable and its initial value.
type VariableConfig struct {
	Name  string       `json:"name" yaml:"name"`
	Type  VariableType `json:"type,omitempty" yaml:"type,omitempty"`
	Value any          `json:"value" yaml:"value"`
}

// Resolve returns the initial value converted to the declared type. With
// no declared type the type is inferred from the decoded value.
func (v VariableConfig) Resolve() (any, error) {
	typ := v.Type
	if typ == "" {
		switch v.Value.(type) {
		case int, int64, uint64:
			typ = Int
		case float64:
			typ = Float
		case bool:
			typ = Bool
		case string:
			typ = String
		case nil:
			return nil, fmt.Errorf("variable %s: value is required when type is omitted", v.Name)
		default:
			return nil, fmt.Errorf("variable %s: unsupported value %T", v.Name, v.Value)
		}
	}

	switch typ {
	case Int:
		switch n := v.Value.(type) {
		case nil:
			return 0, nil
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case uint64:
			return int(n), nil
		case float64:
			if n == math.Trunc(n) {
				return int(n), nil
			}
		}
	case Float:
		switch n := v.Value.(type) {
		case nil:
			return 0.0, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
	case Bool:
		switch b := v.Value.(type) {
		case nil:
			return false, nil
		case bool:
			return b, nil
		}
	case String:
		switch s := v.Value.(type) {
		case nil:
			return "", nil
		case string:
			return s, nil
		}
	default:
		return nil, fmt.Errorf("variable %s: unknown type %q", v.Name, typ)
	}
	return nil, fmt.Errorf("variable %s: value %v is not a %s", v.Name, v.Value, typ)
}
