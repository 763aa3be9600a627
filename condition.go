package gamechart

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Condition guards a transition. Implementations must not have side effects;
// they may read chart variables through t.Chart().
type Condition interface {
	IsSatisfied(t *Transition) bool
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(t *Transition) bool

func (f ConditionFunc) IsSatisfied(t *Transition) bool { return f(t) }

type alwaysCondition struct{}

func (alwaysCondition) IsSatisfied(*Transition) bool { return true }

func (alwaysCondition) String() string { return "true" }

// Always is satisfied unconditionally.
var Always Condition = alwaysCondition{}

type notCondition struct{ c Condition }

func (n notCondition) IsSatisfied(t *Transition) bool { return !n.c.IsSatisfied(t) }

// Not negates c.
func Not(c Condition) Condition { return notCondition{c} }

type allCondition []Condition

func (all allCondition) IsSatisfied(t *Transition) bool {
	for _, c := range all {
		if !c.IsSatisfied(t) {
			return false
		}
	}
	return true
}

// All is satisfied when every condition is. All() is always satisfied.
func All(conds ...Condition) Condition { return allCondition(conds) }

type anyCondition []Condition

func (some anyCondition) IsSatisfied(t *Transition) bool {
	for _, c := range some {
		if c.IsSatisfied(t) {
			return true
		}
	}
	return false
}

// Any is satisfied when at least one condition is. Any() is never satisfied.
func Any(conds ...Condition) Condition { return anyCondition(conds) }

// Expression compares a chart variable with a literal, e.g. "hp <= 0".
type Expression struct {
	Variable string
	Op       string
	Value    any
	text     string
}

var expressionOps = []string{"<=", ">=", "==", "!=", "<", ">"}

// ParseExpression parses "name op literal" where op is one of
// == != < <= > >=. Literals are true/false, integers, floats, quoted
// strings, or bare words taken as strings.
func ParseExpression(text string) (*Expression, error) {
	idx, op := -1, ""
	for i := 0; i < len(text) && idx < 0; i++ {
		for _, candidate := range expressionOps {
			if strings.HasPrefix(text[i:], candidate) {
				idx, op = i, candidate
				break
			}
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("expression %q: missing comparison operator", text)
	}

	name := strings.TrimSpace(text[:idx])
	literal := strings.TrimSpace(text[idx+len(op):])
	if name == "" || strings.ContainsAny(name, " \t") {
		return nil, fmt.Errorf("expression %q: invalid variable name %q", text, name)
	}
	if literal == "" {
		return nil, fmt.Errorf("expression %q: missing value", text)
	}

	value, err := parseLiteral(literal)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %w", text, err)
	}
	if _, ok := value.(bool); ok && op != "==" && op != "!=" {
		return nil, fmt.Errorf("expression %q: operator %s not defined on booleans", text, op)
	}
	return &Expression{Variable: name, Op: op, Value: value, text: text}, nil
}

// MustParseExpression is like ParseExpression but panics on error.
func MustParseExpression(text string) *Expression {
	e, err := ParseExpression(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) String() string {
	if e.text != "" {
		return e.text
	}
	return fmt.Sprintf("%s %s %v", e.Variable, e.Op, e.Value)
}

// IsSatisfied reads the variable from the transition's chart. Missing
// variables and incomparable types are unsatisfied.
func (e *Expression) IsSatisfied(t *Transition) bool {
	c := t.Chart()
	if c == nil {
		return false
	}
	v, err := c.GetVariable(e.Variable)
	if err != nil {
		return false
	}
	return compare(v, e.Op, e.Value)
}

func parseLiteral(s string) (any, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if strings.HasPrefix(s, `"`) {
		v, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %s", s)
		}
		return v, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return s, nil
}

func compare(v any, op string, literal any) bool {
	switch lit := literal.(type) {
	case bool:
		b, ok := v.(bool)
		if !ok {
			return false
		}
		return (b == lit) == (op == "==")
	case string:
		s, ok := v.(string)
		if !ok {
			return false
		}
		return ordered(strings.Compare(s, lit), op)
	}

	lf, ok := toFloat(literal)
	if !ok {
		return false
	}
	vf, ok := toFloat(v)
	if !ok {
		return false
	}
	switch {
	case vf < lf:
		return ordered(-1, op)
	case vf > lf:
		return ordered(1, op)
	default:
		return ordered(0, op)
	}
}

func ordered(cmp int, op string) bool {
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
