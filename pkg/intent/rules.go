package intent

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// ParseRules decodes a YAML rule set. The result still needs NewLocal to
// compile it.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("parse rules: no rules defined")
	}
	return f.Rules, nil
}

// LoadRules reads and decodes a YAML rule set from r.
func LoadRules(r io.Reader) ([]Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}
