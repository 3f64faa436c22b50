package tracker

import (
	"context"
	"strconv"

	"github.com/tidwall/gjson"

	cwerrors "github.com/vidyasagarr7/cw/internal/errors"
	"github.com/vidyasagarr7/cw/internal/git"
)

// Client implements Provider using the gh CLI, resolving the repository
// from the working directory's git remote the same way gh itself does.
type Client struct {
	repoPath string
	run      git.CommandRunner
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)

// NewClient creates a gh-backed tracker client rooted at repoPath.
func NewClient(repoPath string, runner git.CommandRunner) *Client {
	return &Client{repoPath: repoPath, run: runner}
}

// Issue fetches an issue's title and labels. Any failure is wrapped as
// MetadataUnavailable; callers fall back to default naming.
func (c *Client) Issue(ctx context.Context, number int) (*Issue, error) {
	out, err := c.run.Run(c.repoPath, "gh", "issue", "view",
		strconv.Itoa(number), "--json", "title,labels")
	if err != nil {
		return nil, cwerrors.ErrMetadataUnavailable(number, err)
	}

	if !gjson.Valid(out) {
		return nil, cwerrors.ErrMetadataUnavailable(number, nil)
	}

	issue := &Issue{
		Number: number,
		Title:  gjson.Get(out, "title").String(),
	}
	for _, label := range gjson.Get(out, "labels.#.name").Array() {
		issue.Labels = append(issue.Labels, label.String())
	}

	return issue, nil
}
