package generator

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type contributors struct {
	api    interfaces.GitHubAPI
	writer interfaces.Writer
}

// NewContributors creates the generator writing an avatar wall of
// contributors, most active first
func NewContributors(api interfaces.GitHubAPI, writer interfaces.Writer) interfaces.Generator {
	return &contributors{api: api, writer: writer}
}

func (g *contributors) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	repo, err := entry.Repo()
	if err != nil {
		return err
	}

	list, err := g.api.ListContributors(ctx, repo)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch contributors")
	}

	data, err := render("contributors.md.tmpl", map[string]any{
		"Repository":   repo.String(),
		"Contributors": list,
	})
	if err != nil {
		return err
	}

	dst := output.ObjectPath(repo.Owner, repo.Name, "contributors.md")
	if err := g.writer.Put(ctx, dst, contentTypeMarkdown, data); err != nil {
		return goerr.Wrap(err, "failed to write contributors", goerr.V("path", dst))
	}

	ctxlog.From(ctx).Info("Generated contributors page",
		"repository", repo.String(),
		"contributor_count", len(list),
		"path", dst,
	)
	return nil
}
