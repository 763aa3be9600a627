package gamechart_test

import (
	"testing"

	. "github.com/comalice/gamechart"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		text     string
		variable string
		op       string
		value    any
		wantErr  bool
	}{
		{text: "hp <= 0", variable: "hp", op: "<=", value: int64(0)},
		{text: "hp<=0", variable: "hp", op: "<=", value: int64(0)},
		{text: "speed > 1.5", variable: "speed", op: ">", value: 1.5},
		{text: "armed == true", variable: "armed", op: "==", value: true},
		{text: `name != "bob"`, variable: "name", op: "!=", value: "bob"},
		{text: "mode == easy", variable: "mode", op: "==", value: "easy"},
		{text: "lives >= -1", variable: "lives", op: ">=", value: int64(-1)},
		{text: "hp", wantErr: true},
		{text: "<= 3", wantErr: true},
		{text: "hp <=", wantErr: true},
		{text: "my hp < 3", wantErr: true},
		{text: "armed < true", wantErr: true},
		{text: `name == "bob`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			e, err := ParseExpression(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", e)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if e.Variable != tt.variable || e.Op != tt.op || e.Value != tt.value {
				t.Errorf("got %s %s %v (%T)", e.Variable, e.Op, e.Value, e.Value)
			}
			if e.String() != tt.text {
				t.Errorf("String = %q", e.String())
			}
		})
	}
}

func TestMustParseExpressionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustParseExpression("not an expression")
}

func TestExpressionEvaluation(t *testing.T) {
	c, _ := newGame(t,
		WithVariable("speed", 2.5),
		WithVariable("armed", true),
		WithVariable("mode", "hard"),
	)
	guarded := mustFind(t, c, "Game.Playing").Transitions()[0]

	tests := []struct {
		expr string
		want bool
	}{
		{"hp == 10", true},
		{"hp != 10", false},
		{"hp < 10.5", true},
		{"hp >= 11", false},
		{"speed > 2", true},
		{"speed <= 2.5", true},
		{"armed == true", true},
		{"armed != true", false},
		{"mode == hard", true},
		{`mode < "easy"`, false},
		{"mode == 3", false},
		{"hp == hard", false},
		{"missing == 1", false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := MustParseExpression(tt.expr).IsSatisfied(guarded); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionWithoutChart(t *testing.T) {
	tr := NewTransition(NewAtomicState("A"), "go", nil)
	if MustParseExpression("hp == 1").IsSatisfied(tr) {
		t.Error("unbound transition should not satisfy an expression")
	}
}

func TestConditionCombinators(t *testing.T) {
	yes := ConditionFunc(func(*Transition) bool { return true })
	no := ConditionFunc(func(*Transition) bool { return false })
	tr := &Transition{}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"always", Always, true},
		{"not yes", Not(yes), false},
		{"not no", Not(no), true},
		{"all empty", All(), true},
		{"all mixed", All(yes, no), false},
		{"all yes", All(yes, yes), true},
		{"any empty", Any(), false},
		{"any mixed", Any(no, yes), true},
		{"any no", Any(no, no), false},
		{"nested", All(yes, Any(no, Not(no))), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.IsSatisfied(tr); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
