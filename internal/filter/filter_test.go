package filter

import (
	"reflect"
	"strings"
	"testing"
)

func TestApply(t *testing.T) {
	data := map[string]any{
		"channel": "lobby",
		"users":   []any{"alice", "bob"},
	}

	tests := []struct {
		name string
		expr string
		want any
	}{
		{"empty expression returns input", "", data},
		{"field", ".channel", "lobby"},
		{"array length", ".users | length", 2},
		{"iterate returns slice", ".users[]", []any{"alice", "bob"}},
		{"shell escaped not-equal", `.users | map(select(. \!= "bob"))`, []any{"alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(data, tt.expr)
			if err != nil {
				t.Fatalf("Apply(%q): %v", tt.expr, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply(%q) = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestApply_InvalidExpression(t *testing.T) {
	_, err := Apply(map[string]any{}, ".[")
	if err == nil || !strings.Contains(err.Error(), "invalid filter expression") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestApply_RuntimeError(t *testing.T) {
	_, err := Apply(map[string]any{"n": "x"}, ".n + 1")
	if err == nil || !strings.Contains(err.Error(), "filter error") {
		t.Errorf("expected runtime error, got %v", err)
	}
}

func TestApplyJSON_Struct(t *testing.T) {
	type countResult struct {
		Online int64 `json:"online"`
	}
	got, err := ApplyJSON(countResult{Online: 7}, ".online")
	if err != nil {
		t.Fatalf("ApplyJSON: %v", err)
	}
	// JSON numbers decode as float64 before reaching gojq
	if got != float64(7) {
		t.Errorf("ApplyJSON = %#v, want 7", got)
	}
}
