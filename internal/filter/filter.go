// Package filter applies JMESPath expressions to decoded documents and to
// JSON text.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Search evaluates expression against a decoded document (maps, slices and
// scalars as produced by encoding/json or yaml.v3). An empty expression
// returns data unchanged.
func Search(data interface{}, expression string) (interface{}, error) {
	if expression == "" {
		return data, nil
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// Apply evaluates expression against a JSON string and returns the result
// as indented JSON.
func Apply(jsonStr string, expression string) (string, error) {
	if expression == "" {
		return jsonStr, nil
	}

	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := Search(data, expression)
	if err != nil {
		return "", err
	}

	// Handle null result
	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
