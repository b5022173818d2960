// Package template substitutes {{name}} placeholders in node configuration
// with values from an execution context.
package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dukex/hireflow/pkg/models"
)

const (
	candidateNamespace = "candidate."
	jobNamespace       = "job."
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.\-]*)\s*\}\}`)

// Resolve replaces every {{identifier}} in input with its value from execCtx.
// Placeholders that cannot be resolved are left verbatim. Substitution is a
// single pass: substituted values are never expanded again.
func Resolve(input string, execCtx *models.ExecutionContext) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return placeholder.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]

		value, ok := Lookup(name, execCtx)
		if !ok {
			return match
		}

		return Format(value)
	})
}

// ResolveMap resolves every string value of in, returning a new map.
func ResolveMap(in map[string]string, execCtx *models.ExecutionContext) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = Resolve(v, execCtx)
	}

	return out
}

// Lookup finds the raw value for a placeholder name. candidate.* and job.*
// read from the candidate and job payloads; any other name is looked up in the
// variable bag, first as an exact key and then as a dotted path into nested
// objects.
func Lookup(name string, execCtx *models.ExecutionContext) (any, bool) {
	if execCtx == nil {
		return nil, false
	}

	switch {
	case strings.HasPrefix(name, candidateNamespace):
		return lookupPath(execCtx.CandidateData, strings.TrimPrefix(name, candidateNamespace))
	case strings.HasPrefix(name, jobNamespace):
		return lookupPath(execCtx.JobData, strings.TrimPrefix(name, jobNamespace))
	}

	if value, ok := execCtx.Variables[name]; ok {
		return value, true
	}

	return lookupPath(execCtx.Variables, name)
}

func lookupPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}

	if value, ok := data[path]; ok {
		return value, true
	}

	var current any = data

	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Format renders a variable value as it appears inside a resolved string.
// Objects and arrays are rendered as JSON, nil as the empty string.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
