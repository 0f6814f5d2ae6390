package github

import (
	"cmp"
	"slices"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

func toRelease(r *github.RepositoryRelease) (*model.Release, error) {
	if r.GetTagName() == "" {
		return nil, goerr.New("release has no tag_name", goerr.V("id", r.GetID()))
	}

	release := &model.Release{
		Tag:         r.GetTagName(),
		Name:        r.GetName(),
		Prerelease:  r.GetPrerelease(),
		PublishedAt: r.GetPublishedAt().Time,
		URL:         r.GetHTMLURL(),
		Body:        r.GetBody(),
		Assets:      make([]model.Asset, 0, len(r.Assets)),
	}
	for _, asset := range r.Assets {
		release.Assets = append(release.Assets, model.Asset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}

	return release, nil
}

// toContributors renames fields and orders by contribution count, highest
// first. Equal counts keep API order. The count is dropped.
func toContributors(raw []*github.Contributor) ([]*model.Contributor, error) {
	type ranked struct {
		contributor   *model.Contributor
		contributions int
	}

	rankedList := make([]ranked, 0, len(raw))
	for _, c := range raw {
		if c.GetLogin() == "" {
			return nil, goerr.New("contributor has no login", goerr.V("id", c.GetID()))
		}
		rankedList = append(rankedList, ranked{
			contributor: &model.Contributor{
				Username: c.GetLogin(),
				Avatar:   c.GetAvatarURL(),
				Link:     c.GetHTMLURL(),
			},
			contributions: c.GetContributions(),
		})
	}

	slices.SortStableFunc(rankedList, func(a, b ranked) int {
		return cmp.Compare(b.contributions, a.contributions)
	})

	contributors := make([]*model.Contributor, len(rankedList))
	for i, r := range rankedList {
		contributors[i] = r.contributor
	}
	return contributors, nil
}

func toMember(u *github.User) (*model.Member, error) {
	if u.GetLogin() == "" {
		return nil, goerr.New("member has no login", goerr.V("id", u.GetID()))
	}
	return &model.Member{
		Username: u.GetLogin(),
		Avatar:   u.GetAvatarURL(),
		Link:     u.GetHTMLURL(),
	}, nil
}
