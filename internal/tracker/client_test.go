package tracker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
)

type fakeRunner struct {
	responses map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]string{}}
}

func (f *fakeRunner) script(cmd, out string) {
	f.responses[cmd] = out
}

func (f *fakeRunner) Run(workDir, name string, args ...string) (string, error) {
	key := name + " " + strings.Join(args, " ")
	if out, ok := f.responses[key]; ok {
		return out, nil
	}
	return "", fmt.Errorf("command failed: %s", key)
}

func TestIssue(t *testing.T) {
	r := newFakeRunner()
	r.script("gh issue view 423 --json title,labels",
		`{"title":"Login redirect broken","labels":[{"name":"bug"},{"name":"urgent"}]}`)

	issue, err := NewClient("/repo", r).Issue(context.Background(), 423)
	require.NoError(t, err)

	assert.Equal(t, 423, issue.Number)
	assert.Equal(t, "Login redirect broken", issue.Title)
	assert.Equal(t, []string{"bug", "urgent"}, issue.Labels)
}

func TestIssue_NoLabels(t *testing.T) {
	r := newFakeRunner()
	r.script("gh issue view 7 --json title,labels", `{"title":"A title","labels":[]}`)

	issue, err := NewClient("/repo", r).Issue(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "A title", issue.Title)
	assert.Empty(t, issue.Labels)
}

func TestIssue_CommandFailure(t *testing.T) {
	r := newFakeRunner()

	_, err := NewClient("/repo", r).Issue(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, cwerrors.ErrMetadataUnavailable(0, nil))
	assert.Contains(t, err.Error(), "#999")
}

func TestIssue_MalformedJSON(t *testing.T) {
	r := newFakeRunner()
	r.script("gh issue view 5 --json title,labels", "gh: not logged in")

	_, err := NewClient("/repo", r).Issue(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, cwerrors.ErrMetadataUnavailable(0, nil))
}
