package planner

import (
	"os"
	"path/filepath"
	"strings"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
)

// ReadArtifact returns the plan artifact written inside a sandbox by the
// planning phase. A missing or empty artifact is the soft
// PlanArtifactMissing error; the session's entry script substitutes a
// placeholder in that case, so callers report rather than abort.
func ReadArtifact(sandboxPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(sandboxPath, PlanArtifact))
	if err != nil {
		return "", cwerrors.ErrPlanArtifactMissing(PlanArtifact).WithCause(err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", cwerrors.ErrPlanArtifactMissing(PlanArtifact)
	}
	return string(data), nil
}
