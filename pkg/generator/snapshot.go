package generator

import (
	"context"
	"time"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type snapshot struct {
	api    interfaces.GitHubAPI
	writer interfaces.Writer
	now    func() time.Time
}

// NewSnapshot creates the generator dumping every fetched dataset of the
// entry as one JSON document
func NewSnapshot(api interfaces.GitHubAPI, writer interfaces.Writer) interfaces.Generator {
	return &snapshot{api: api, writer: writer, now: time.Now}
}

type snapshotDoc struct {
	GeneratedAt  time.Time            `json:"generated_at"`
	Repository   string               `json:"repository,omitempty"`
	Organization string               `json:"organization,omitempty"`
	Releases     []*model.Release     `json:"releases,omitempty"`
	Contributors []*model.Contributor `json:"contributors,omitempty"`
	Members      []*model.Member      `json:"members,omitempty"`
}

func (g *snapshot) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	doc := snapshotDoc{
		GeneratedAt:  g.now().UTC(),
		Organization: entry.Organization,
	}

	var dir []string
	if entry.Repository != "" {
		repo, err := types.ParseRepoName(entry.Repository)
		if err != nil {
			return err
		}
		doc.Repository = repo.String()
		dir = []string{repo.Owner, repo.Name}

		if doc.Releases, err = g.api.ListReleases(ctx, repo); err != nil {
			return goerr.Wrap(err, "failed to fetch releases")
		}
		if doc.Contributors, err = g.api.ListContributors(ctx, repo); err != nil {
			return goerr.Wrap(err, "failed to fetch contributors")
		}
	}

	if entry.Organization != "" {
		var err error
		if doc.Members, err = g.api.ListMembers(ctx, entry.Organization); err != nil {
			return goerr.Wrap(err, "failed to fetch members")
		}
		if dir == nil {
			dir = []string{entry.Organization}
		}
	}

	if dir == nil {
		return goerr.Wrap(types.ErrMissingIdentifier, "entry has neither repository nor organization")
	}

	data, err := marshalJSON(doc)
	if err != nil {
		return err
	}

	dst := output.ObjectPath(append(dir, "snapshot.json")...)
	if err := g.writer.Put(ctx, dst, contentTypeJSON, data); err != nil {
		return goerr.Wrap(err, "failed to write snapshot", goerr.V("path", dst))
	}
	return nil
}
