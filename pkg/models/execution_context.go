package models

// ExecutionContext is the run-scoped variable bag. CandidateData and JobData
// are read-only payloads reachable through the candidate.* and job.*
// placeholder namespaces.
type ExecutionContext struct {
	Variables     map[string]any `json:"variables"`
	CandidateData map[string]any `json:"candidate_data,omitempty"`
	JobData       map[string]any `json:"job_data,omitempty"`
}

// NewExecutionContext returns a context seeded with a copy of variables.
func NewExecutionContext(variables, candidate, job map[string]any) ExecutionContext {
	vars := cloneMap(variables)
	if vars == nil {
		vars = make(map[string]any)
	}

	return ExecutionContext{
		Variables:     vars,
		CandidateData: candidate,
		JobData:       job,
	}
}

// SetVariable stores value under key, allocating the bag on first use.
func (c *ExecutionContext) SetVariable(key string, value any) {
	if c.Variables == nil {
		c.Variables = make(map[string]any)
	}

	c.Variables[key] = value
}

// Merge copies every entry of payload into the variable bag, overwriting
// existing keys.
func (c *ExecutionContext) Merge(payload map[string]any) {
	for k, v := range payload {
		c.SetVariable(k, v)
	}
}
