package tool_test

import (
	"slices"
	"testing"

	"github.com/relaykit/relaykit/pkg/tool"
)

func TestParamsJSONSchema(t *testing.T) {
	p := &tool.Params{Fields: []tool.Field{
		{Name: "strategy", Type: tool.TypeString, Enum: []string{"aggressive", "conservative", "balanced"}, Required: true},
		{Name: "amount", Type: tool.TypeNumber, Description: "dollar amount"},
		{Name: "years", Type: "durations"}, // unknown type falls back to string
	}}

	s := p.JSONSchema()
	if s.Type != "object" {
		t.Fatalf("Type = %q, want object", s.Type)
	}
	if len(s.Properties) != 3 {
		t.Fatalf("Properties has %d entries, want 3", len(s.Properties))
	}
	if got := s.Properties["strategy"].Type; got != "string" {
		t.Errorf("strategy type = %q", got)
	}
	if got := len(s.Properties["strategy"].Enum); got != 3 {
		t.Errorf("strategy enum has %d values, want 3", got)
	}
	if got := s.Properties["amount"].Type; got != "number" {
		t.Errorf("amount type = %q", got)
	}
	if got := s.Properties["years"].Type; got != "string" {
		t.Errorf("unknown field type mapped to %q, want string", got)
	}
	if !slices.Equal(s.Required, []string{"strategy"}) {
		t.Errorf("Required = %v", s.Required)
	}
}

func TestNilParamsSchema(t *testing.T) {
	var p *tool.Params
	s := p.JSONSchema()
	if s.Type != "object" {
		t.Fatalf("Type = %q, want object", s.Type)
	}
	if len(s.Properties) != 0 || len(s.Required) != 0 {
		t.Errorf("parameterless schema not empty: %+v", s)
	}
}
