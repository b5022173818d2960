package template

import (
	"testing"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestResolve_Variables(t *testing.T) {
	execCtx := &models.ExecutionContext{
		Variables: map[string]any{
			"name":   "Ada",
			"score":  float64(42),
			"ratio":  1.5,
			"active": true,
			"nested": map[string]any{"city": "Lisbon"},
			"empty":  nil,
		},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"Hello {{name}}", "Hello Ada"},
		{"Hello {{ name }}!", "Hello Ada!"},
		{"score={{score}} ratio={{ratio}}", "score=42 ratio=1.5"},
		{"{{active}}", "true"},
		{"lives in {{nested.city}}", "lives in Lisbon"},
		{"[{{empty}}]", "[]"},
		{"{{missing}}", "{{missing}}"},
		{"no placeholders here", "no placeholders here"},
		{"{{name}} and {{missing}}", "Ada and {{missing}}"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Resolve(tt.input, execCtx), tt.input)
	}
}

func TestResolve_EmptyContext(t *testing.T) {
	assert.Equal(t, "{{missing}}", Resolve("{{missing}}", &models.ExecutionContext{}))
	assert.Equal(t, "{{missing}}", Resolve("{{missing}}", nil))
}

func TestResolve_Namespaces(t *testing.T) {
	execCtx := &models.ExecutionContext{
		Variables:     map[string]any{"candidate.phone": "shadowed"},
		CandidateData: map[string]any{"phone": "+15551234567", "firstName": "Grace"},
		JobData:       map[string]any{"title": "Engineer"},
	}

	assert.Equal(t, "+15551234567", Resolve("{{candidate.phone}}", execCtx))
	assert.Equal(t, "Hi Grace, re: Engineer", Resolve("Hi {{candidate.firstName}}, re: {{job.title}}", execCtx))
	assert.Equal(t, "{{candidate.email}}", Resolve("{{candidate.email}}", execCtx))
	assert.Equal(t, "{{job.salary}}", Resolve("{{job.salary}}", execCtx))
}

func TestResolve_SinglePass(t *testing.T) {
	execCtx := &models.ExecutionContext{
		Variables: map[string]any{
			"a": "{{b}}",
			"b": "boom",
		},
	}

	assert.Equal(t, "{{b}}", Resolve("{{a}}", execCtx))
}

func TestResolve_Idempotent(t *testing.T) {
	execCtx := &models.ExecutionContext{Variables: map[string]any{"x": "1"}}

	for _, s := range []string{"", "plain text", "{ single } braces", "{{ }}"} {
		once := Resolve(s, execCtx)
		assert.Equal(t, s, once)
		assert.Equal(t, once, Resolve(once, execCtx))
	}
}

func TestFormat_Objects(t *testing.T) {
	assert.Equal(t, `{"a":1}`, Format(map[string]any{"a": 1}))
	assert.Equal(t, `["x","y"]`, Format([]any{"x", "y"}))
	assert.Equal(t, "7", Format(7))
}

func TestResolveMap(t *testing.T) {
	execCtx := &models.ExecutionContext{Variables: map[string]any{"token": "abc"}}

	out := ResolveMap(map[string]string{"Authorization": "Bearer {{token}}"}, execCtx)
	assert.Equal(t, "Bearer abc", out["Authorization"])
}
