package model

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalArgs decodes a function-call argument payload. Models emit
// almost-JSON often enough that a syntax error gets one repair attempt
// before failing. Empty payloads decode to no arguments.
func UnmarshalArgs(data string) (map[string]any, error) {
	if data == "" {
		return nil, nil
	}
	var args map[string]any
	err := json.Unmarshal([]byte(data), &args)
	if err == nil {
		return args, nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, repairErr := jsonrepair.JSONRepair(data)
		if repairErr != nil {
			return nil, err
		}
		if json.Unmarshal([]byte(fixed), &args) == nil {
			return args, nil
		}
	}
	return nil, err
}
