package primitives

import "testing"

func TestVariableConfigResolve(t *testing.T) {
	tests := []struct {
		name    string
		cfg     VariableConfig
		want    any
		wantErr bool
	}{
		{"int", VariableConfig{Name: "hp", Type: Int, Value: 10}, 10, false},
		{"int from integral float", VariableConfig{Name: "hp", Type: Int, Value: 3.0}, 3, false},
		{"int from fractional float", VariableConfig{Name: "hp", Type: Int, Value: 3.5}, nil, true},
		{"float from int", VariableConfig{Name: "speed", Type: Float, Value: 2}, 2.0, false},
		{"bool", VariableConfig{Name: "armed", Type: Bool, Value: true}, true, false},
		{"string", VariableConfig{Name: "mode", Type: String, Value: "easy"}, "easy", false},
		{"zero value", VariableConfig{Name: "mode", Type: String}, "", false},
		{"inferred int", VariableConfig{Name: "hp", Value: 7}, 7, false},
		{"inferred float", VariableConfig{Name: "speed", Value: 0.5}, 0.5, false},
		{"inferred without value", VariableConfig{Name: "x"}, nil, true},
		{"unknown type", VariableConfig{Name: "x", Type: "vector", Value: 1}, nil, true},
		{"mismatch", VariableConfig{Name: "x", Type: Bool, Value: "yes"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Resolve()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}
