package graph

import "github.com/dukex/hireflow/pkg/models"

// Report holds the non-fatal findings of Validate.
type Report struct {
	Warnings []*Error `json:"warnings,omitempty"`
}

// HasWarnings reports whether any warning was recorded.
func (r *Report) HasWarnings() bool {
	return r != nil && len(r.Warnings) > 0
}

// Validate checks a workflow's structure. Dangling connections, duplicate ids,
// misplaced branch labels and cycles are errors. A missing start node and
// nodes unreachable from start are warnings, so drafts can still be saved.
func Validate(workflow *models.Workflow) (*Report, error) {
	g, err := FromWorkflow(workflow)
	if err != nil {
		return nil, err
	}

	if err := g.CheckAcyclic(); err != nil {
		return nil, err
	}

	report := &Report{}

	if g.start < 0 {
		if len(g.nodes) > 0 {
			report.Warnings = append(report.Warnings, &Error{Kind: ErrMissingStartNode})
		}

		return report, nil
	}

	for _, id := range g.Unreachable() {
		report.Warnings = append(report.Warnings, nodeError(ErrUnreachableNode, id))
	}

	return report, nil
}
