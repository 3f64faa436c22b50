package planner

import (
	"fmt"
	"strings"
	"text/template"
)

// taskDescription renders the "what to work on" block shared by all
// instruction payloads.
func taskDescription(t Task) string {
	var b strings.Builder
	if t.Ref.IsIssue() {
		fmt.Fprintf(&b, "Work on issue #%d.", t.Ref.Issue)
		if t.Title != "" {
			fmt.Fprintf(&b, " Title: %s.", t.Title)
		}
		b.WriteString(" Read the full issue (for example with 'gh issue view') before making changes.")
	} else {
		fmt.Fprintf(&b, "Work on branch task '%s'. You are already checked out on this branch.", t.Ref.Branch)
	}
	return b.String()
}

var singlePhaseTmpl = template.Must(template.New("single").Parse(
	`{{.Description}}

Implement the change end to end:
1. Understand the task and the relevant code.
2. Implement the change.
3. Run the project's tests and fix anything you broke.
4. Commit your work with clear messages, push the branch, and open a
   pull request{{if .Issue}} that references issue #{{.Issue}}{{end}}.
{{if .Context}}
Additional context from the operator:
{{.Context}}
{{end}}`))

var planPhaseTmpl = template.Must(template.New("plan").Parse(
	`{{.Description}}

This is the PLANNING phase. Do NOT modify any code, configuration, or tests.
Analyze the task and the codebase, then write an implementation plan to
'{{.Artifact}}' in the current directory. The plan should list the files to
change, the approach, the risks, and how the change will be verified.
Writing {{.Artifact}} is the only file modification allowed in this phase.
{{if .Context}}
Additional context from the operator:
{{.Context}}
{{end}}`))

var execPhaseTmpl = template.Must(template.New("exec").Parse(
	`{{.Description}}

This is the EXECUTION phase. First read '{{.Artifact}}' in the current
directory and follow it. Then:
1. Implement the change as planned, noting any deviations.
2. Run the project's tests and fix anything you broke.
3. Commit your work with clear messages, push the branch, and open a
   pull request{{if .Issue}} that references issue #{{.Issue}}{{end}}.
{{if .Context}}
Additional context from the operator:
{{.Context}}
{{end}}`))

// promptData is the template payload for all phases.
type promptData struct {
	Description string
	Artifact    string
	Issue       int
	Context     string
}

func render(tmpl *template.Template, t Task) (string, error) {
	data := promptData{
		Description: taskDescription(t),
		Artifact:    PlanArtifact,
		Issue:       t.Ref.Issue,
		Context:     strings.TrimSpace(t.Context),
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s instructions: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

func renderSinglePhase(t Task) (string, error) { return render(singlePhaseTmpl, t) }
func renderPlanPhase(t Task) (string, error)   { return render(planPhaseTmpl, t) }
func renderExecPhase(t Task) (string, error)   { return render(execPhaseTmpl, t) }
