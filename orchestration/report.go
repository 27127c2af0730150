package orchestration

import (
	"time"

	"github.com/richinex/reviewer/model"
)

// Step is one entry of the workflow history.
type Step struct {
	Index   int           `json:"step"`
	Agent   string        `json:"agent"`
	Message model.Message `json:"message"`
}

// StepSummary is the trace view of a Step.
type StepSummary struct {
	Step      int                    `json:"step"`
	Agent     string                 `json:"agent"`
	ToolCalls []model.ToolCallRecord `json:"tool_calls"`
	Timestamp time.Time              `json:"timestamp"`
}

// Report summarizes a sequence of workflow steps.
type Report struct {
	TotalSteps     int           `json:"total_steps"`
	AgentsInvolved []string      `json:"agents_involved"`
	Workflow       []StepSummary `json:"workflow"`
}

// BuildReport summarizes steps in order.
func BuildReport(steps []Step) Report {
	r := Report{
		TotalSteps:     len(steps),
		AgentsInvolved: make([]string, 0, len(steps)),
		Workflow:       make([]StepSummary, 0, len(steps)),
	}
	for _, s := range steps {
		calls := s.Message.ToolCalls
		if calls == nil {
			calls = []model.ToolCallRecord{}
		}
		r.AgentsInvolved = append(r.AgentsInvolved, s.Agent)
		r.Workflow = append(r.Workflow, StepSummary{
			Step:      s.Index,
			Agent:     s.Agent,
			ToolCalls: calls,
			Timestamp: s.Message.Timestamp,
		})
	}
	return r
}
