// Package valueparse parses the compact value strings used in scene
// configuration files.
//
// Supported formats:
//   - Float tuples: "120,60", "1 0.5 0 1", "[0.2 0.4 0.6]"
//   - Index lists:  "2,0", "0, 1, 3"
package valueparse

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFloats parses a tuple of floats separated by commas and/or whitespace.
// Surrounding brackets are optional. An empty string yields an empty slice.
func ParseFloats(s string) ([]float64, error) {
	fields := splitFields(s)
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q: %w", f, s, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseFloatsN is ParseFloats with an arity check.
func ParseFloatsN(s string, n int) ([]float64, error) {
	values, err := ParseFloats(s)
	if err != nil {
		return nil, err
	}
	if len(values) != n {
		return nil, fmt.Errorf("expected %d numbers in %q, got %d", n, s, len(values))
	}
	return values, nil
}

// ParseIndexList parses a CSV list of non-negative descriptor indexes ("2,0").
// Order and duplicates are preserved; they are meaningful to the caller.
func ParseIndexList(s string) ([]int, error) {
	fields := splitFields(s)
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q in %q: %w", f, s, err)
		}
		if i < 0 {
			return nil, fmt.Errorf("negative index %d in %q", i, s)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// splitFields 去掉可选的方括号，按逗号和空白切分
func splitFields(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
