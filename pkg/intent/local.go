package intent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/relaykit/relaykit/pkg/domain"
)

// Rule declares one local resolution rule. A rule fires when any of the Any
// substrings occurs in the lowercased prompt, or when Pattern matches it.
// Static Args are copied into the request; named capture groups in Pattern
// become additional arguments, converted per ArgTypes.
type Rule struct {
	// Tool is the name of the tool to request.
	Tool string `json:"tool" yaml:"tool"`
	// Any lists substring alternatives, matched case-insensitively.
	Any []string `json:"any,omitempty" yaml:"any,omitempty"`
	// Pattern is a regular expression, compiled case-insensitively.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// Args are static arguments attached to every request the rule produces.
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
	// ArgTypes maps capture group names to string|int|float|bool.
	// Unlisted groups are passed through as strings.
	ArgTypes map[string]string `json:"arg_types,omitempty" yaml:"arg_types,omitempty"`
}

type compiledRule struct {
	rule    Rule
	any     []string
	pattern *regexp.Regexp
}

// Local resolves prompts with an ordered rule set. It performs no I/O and
// its Resolve never returns an error. Rules are tested in definition order
// and every firing rule appends exactly one request, so a prompt can fan
// out into several tool calls.
type Local struct {
	rules []compiledRule
}

var _ Resolver = (*Local)(nil)

// NewLocal compiles the rule set. Patterns are validated here so Resolve
// stays total.
func NewLocal(rules []Rule) (*Local, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Tool == "" {
			return nil, fmt.Errorf("rule %d: empty tool name", i)
		}
		if len(r.Any) == 0 && r.Pattern == "" {
			return nil, fmt.Errorf("rule %d (%s): no substrings and no pattern", i, r.Tool)
		}
		cr := compiledRule{rule: r}
		for _, s := range r.Any {
			cr.any = append(cr.any, strings.ToLower(s))
		}
		if r.Pattern != "" {
			re, err := regexp.Compile("(?i)" + r.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s): %w", i, r.Tool, err)
			}
			cr.pattern = re
		}
		compiled = append(compiled, cr)
	}
	return &Local{rules: compiled}, nil
}

// Resolve tests the prompt against every rule in order. An empty or
// whitespace prompt resolves to no requests.
func (l *Local) Resolve(_ context.Context, prompt string) ([]domain.ToolRequest, error) {
	lowered := strings.ToLower(strings.TrimSpace(prompt))
	if lowered == "" {
		return nil, nil
	}

	var out []domain.ToolRequest
	for _, cr := range l.rules {
		args, ok := cr.match(lowered)
		if !ok {
			continue
		}
		out = append(out, domain.ToolRequest{Name: cr.rule.Tool, Args: args})
	}
	return out, nil
}

func (cr compiledRule) match(lowered string) (map[string]any, bool) {
	var captures map[string]string
	matched := false

	if cr.pattern != nil {
		if m := cr.pattern.FindStringSubmatch(lowered); m != nil {
			matched = true
			captures = map[string]string{}
			for i, name := range cr.pattern.SubexpNames() {
				if name != "" && m[i] != "" {
					captures[name] = m[i]
				}
			}
		}
	}
	if !matched {
		for _, s := range cr.any {
			if strings.Contains(lowered, s) {
				matched = true
				break
			}
		}
	}
	if !matched {
		return nil, false
	}

	var args map[string]any
	if len(cr.rule.Args) > 0 || len(captures) > 0 {
		args = make(map[string]any, len(cr.rule.Args)+len(captures))
		for k, v := range cr.rule.Args {
			args[k] = v
		}
		for name, raw := range captures {
			v, err := convertArg(cr.rule.ArgTypes[name], raw)
			if err != nil {
				// A capture that fails conversion is dropped rather than
				// failing the whole resolution.
				continue
			}
			args[name] = v
		}
		if len(args) == 0 {
			args = nil
		}
	}
	return args, true
}

// convertArg types a raw capture. Numeric captures tolerate thousands
// separators so "$2,500" style amounts extract cleanly.
func convertArg(typ, raw string) (any, error) {
	switch typ {
	case "", "string":
		return raw, nil
	case "int":
		n, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return nil, err
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown arg type %q", typ)
	}
}
