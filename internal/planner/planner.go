// Package planner decides how a task is executed - in a single pass, or as
// a plan phase followed by an execution phase - and renders the instruction
// payloads the agent runtime consumes. It is a pure function of task
// metadata and configuration: nothing here executes anything, and the
// decision is made once per task start and never recomputed mid-run.
package planner

import (
	"strings"

	"github.com/vidyasagarr7/cw/internal/config"
	"github.com/vidyasagarr7/cw/internal/task"
)

// PlanArtifact is the well-known relative path (inside the sandbox) where
// the plan phase writes its output and the execution phase reads it.
const PlanArtifact = "PLAN.md"

// PlanPlaceholder is substituted when phase 1 produced no artifact, so
// phase 2 can still proceed. Degrade, never deadlock.
const PlanPlaceholder = "No plan was produced by the planning phase. " +
	"Proceed with your best judgment and implement the task directly."

// Mode is the execution policy for a task.
type Mode int

const (
	// SinglePhase runs one self-contained implementation pass.
	SinglePhase Mode = iota
	// TwoPhase runs a read-only planning pass, then an execution pass
	// that implements per the plan artifact.
	TwoPhase
)

func (m Mode) String() string {
	if m == TwoPhase {
		return "two-phase"
	}
	return "single-phase"
}

// Task carries the metadata the planner consumes.
type Task struct {
	Ref    task.Ref
	Title  string
	Labels []string
	// Context is free-form operator text appended verbatim to whichever
	// instruction set is active.
	Context string
}

// Plan is the rendered execution plan for one task start.
type Plan struct {
	Mode Mode

	// Instructions is the single-phase payload; empty for TwoPhase.
	Instructions string

	// PlanInstructions and ExecInstructions are the two-phase payloads;
	// empty for SinglePhase.
	PlanInstructions string
	ExecInstructions string

	// Models per phase, resolved from configuration.
	Model     string // single-phase
	PlanModel string
	ExecModel string
}

// Decide selects the execution mode. Two-phase is chosen iff both a
// plan-model and an exec-model are configured AND the task's labels
// intersect the configured plan-label set (case-insensitive substring
// match per configured label). Anything else is single-phase.
func Decide(labels []string, cfg *config.Config) Mode {
	if cfg.PlanModel == "" || cfg.ExecModel == "" {
		return SinglePhase
	}
	if labelsMatch(labels, cfg.PlanLabels) {
		return TwoPhase
	}
	return SinglePhase
}

// labelsMatch reports whether any task label contains any configured plan
// label, case-insensitively.
func labelsMatch(labels, planLabels []string) bool {
	for _, pl := range planLabels {
		pl = strings.ToLower(strings.TrimSpace(pl))
		if pl == "" {
			continue
		}
		for _, l := range labels {
			if strings.Contains(strings.ToLower(l), pl) {
				return true
			}
		}
	}
	return false
}

// Build renders the execution plan for a task.
func Build(t Task, cfg *config.Config) (*Plan, error) {
	mode := Decide(t.Labels, cfg)

	if mode == TwoPhase {
		planText, err := renderPlanPhase(t)
		if err != nil {
			return nil, err
		}
		execText, err := renderExecPhase(t)
		if err != nil {
			return nil, err
		}
		return &Plan{
			Mode:             TwoPhase,
			PlanInstructions: planText,
			ExecInstructions: execText,
			PlanModel:        cfg.PlanModel,
			ExecModel:        cfg.ExecModel,
		}, nil
	}

	text, err := renderSinglePhase(t)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Mode:         SinglePhase,
		Instructions: text,
		Model:        cfg.Model,
	}, nil
}
