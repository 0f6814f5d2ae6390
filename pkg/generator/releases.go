package generator

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type releases struct {
	api    interfaces.GitHubAPI
	writer interfaces.Writer
}

// NewReleases creates the generator writing a markdown list of every release
// with its assets
func NewReleases(api interfaces.GitHubAPI, writer interfaces.Writer) interfaces.Generator {
	return &releases{api: api, writer: writer}
}

func (g *releases) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	repo, err := entry.Repo()
	if err != nil {
		return err
	}

	list, err := g.api.ListReleases(ctx, repo)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch releases")
	}

	data, err := render("releases.md.tmpl", map[string]any{
		"Repository": repo.String(),
		"Releases":   list,
	})
	if err != nil {
		return err
	}

	dst := output.ObjectPath(repo.Owner, repo.Name, "releases.md")
	if err := g.writer.Put(ctx, dst, contentTypeMarkdown, data); err != nil {
		return goerr.Wrap(err, "failed to write releases", goerr.V("path", dst))
	}

	ctxlog.From(ctx).Info("Generated releases page",
		"repository", repo.String(),
		"release_count", len(list),
		"path", dst,
	)
	return nil
}
