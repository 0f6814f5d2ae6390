package generator

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type members struct {
	api    interfaces.GitHubAPI
	writer interfaces.Writer
}

// NewMembers creates the generator writing the member table of an organization
func NewMembers(api interfaces.GitHubAPI, writer interfaces.Writer) interfaces.Generator {
	return &members{api: api, writer: writer}
}

func (g *members) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	org, err := entry.Org()
	if err != nil {
		return err
	}

	list, err := g.api.ListMembers(ctx, org)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch members")
	}

	data, err := render("members.md.tmpl", map[string]any{
		"Organization": org,
		"Members":      list,
	})
	if err != nil {
		return err
	}

	dst := output.ObjectPath(org, "members.md")
	if err := g.writer.Put(ctx, dst, contentTypeMarkdown, data); err != nil {
		return goerr.Wrap(err, "failed to write members", goerr.V("path", dst))
	}

	ctxlog.From(ctx).Info("Generated members page",
		"organization", org,
		"member_count", len(list),
		"path", dst,
	)
	return nil
}
