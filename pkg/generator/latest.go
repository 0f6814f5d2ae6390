package generator

import (
	"context"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type latest struct {
	api    interfaces.GitHubAPI
	writer interfaces.Writer
}

// NewLatest creates the generator writing the latest release as JSON, for
// download pages and update checkers
func NewLatest(api interfaces.GitHubAPI, writer interfaces.Writer) interfaces.Generator {
	return &latest{api: api, writer: writer}
}

func (g *latest) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	repo, err := entry.Repo()
	if err != nil {
		return err
	}

	release, err := g.api.LatestRelease(ctx, repo, entry.Prerelease)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch latest release")
	}

	data, err := marshalJSON(struct {
		Repository string `json:"repository"`
		*model.Release
	}{
		Repository: repo.String(),
		Release:    release,
	})
	if err != nil {
		return err
	}

	dst := output.ObjectPath(repo.Owner, repo.Name, "latest.json")
	if err := g.writer.Put(ctx, dst, contentTypeJSON, data); err != nil {
		return goerr.Wrap(err, "failed to write latest release", goerr.V("path", dst))
	}
	return nil
}
