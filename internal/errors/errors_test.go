package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	err := &CWError{What: "something broke", Why: "the disk is full"}
	assert.Equal(t, "something broke: the disk is full", err.Error())

	withCause := err.WithCause(fmt.Errorf("write /tmp/x: no space left"))
	assert.Equal(t, "something broke: the disk is full: write /tmp/x: no space left", withCause.Error())
}

func TestIs_MatchesOnCode(t *testing.T) {
	err := ErrBaseNotFound("staging")

	// Same code matches regardless of the formatted message.
	assert.ErrorIs(t, err, ErrBaseNotFound("other"))
	assert.NotErrorIs(t, err, ErrNoSuchSession("staging"))
	assert.NotErrorIs(t, err, stderrors.New("base branch 'staging' not found"))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("exit status 128")
	err := ErrSandboxCreationFailed("feat/x", "origin/main", cause)

	assert.ErrorIs(t, err, cause)

	var cw *CWError
	require.ErrorAs(t, fmt.Errorf("start: %w", err), &cw)
	assert.Equal(t, CodeSandboxCreationFailed, cw.Code)
}

func TestUserMessage(t *testing.T) {
	msg := ErrBaseNotFound("staging").UserMessage()

	assert.Contains(t, msg, "Error: base branch 'staging' not found")
	assert.Contains(t, msg, "Why: ")
	assert.Contains(t, msg, "Fix: ")
	assert.Contains(t, msg, "git fetch origin staging")
}

func TestUserMessage_OmitsEmptySections(t *testing.T) {
	msg := (&CWError{What: "plain failure"}).UserMessage()
	assert.Equal(t, "Error: plain failure", msg)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *CWError
		code Code
		what string
	}{
		{ErrBaseNotFound("dev"), CodeBaseNotFound, "dev"},
		{ErrSandboxCreationFailed("feat/x", "main", nil), CodeSandboxCreationFailed, "feat/x"},
		{ErrNoSuchSession("cw-issue-1"), CodeNoSuchSession, "cw-issue-1"},
		{ErrMetadataUnavailable(42, nil), CodeMetadataUnavailable, "#42"},
		{ErrPlanArtifactMissing("PLAN.md"), CodePlanArtifactMissing, "PLAN.md"},
		{ErrConfigInvalid("model", "must not be empty"), CodeConfigInvalid, "model"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Contains(t, tt.err.What, tt.what)
	}
}
