package generator

import (
	"context"
	"unicode/utf8"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const (
	badgeColorStable     = "#007ec6"
	badgeColorPrerelease = "#fe7d37"
	badgeCharWidth       = 7
	badgePadding         = 10
)

type badge struct {
	api    interfaces.GitHubAPI
	writer interfaces.Writer
}

// NewBadge creates the generator writing an SVG badge of the latest release tag
func NewBadge(api interfaces.GitHubAPI, writer interfaces.Writer) interfaces.Generator {
	return &badge{api: api, writer: writer}
}

type badgeView struct {
	Label        string
	Message      string
	Color        string
	LabelWidth   int
	MessageWidth int
	Width        int
	LabelX       int
	MessageX     int
}

func newBadgeView(label, message, color string) badgeView {
	lw := utf8.RuneCountInString(label)*badgeCharWidth + badgePadding
	mw := utf8.RuneCountInString(message)*badgeCharWidth + badgePadding
	return badgeView{
		Label:        label,
		Message:      message,
		Color:        color,
		LabelWidth:   lw,
		MessageWidth: mw,
		Width:        lw + mw,
		LabelX:       lw / 2,
		MessageX:     lw + mw/2,
	}
}

func (g *badge) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	repo, err := entry.Repo()
	if err != nil {
		return err
	}

	release, err := g.api.LatestRelease(ctx, repo, entry.Prerelease)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch latest release")
	}

	color := badgeColorStable
	if release.Prerelease {
		color = badgeColorPrerelease
	}

	data, err := render("badge.svg.tmpl", newBadgeView("release", release.Tag, color))
	if err != nil {
		return err
	}

	dst := output.ObjectPath(repo.Owner, repo.Name, "badge.svg")
	if err := g.writer.Put(ctx, dst, contentTypeSVG, data); err != nil {
		return goerr.Wrap(err, "failed to write badge", goerr.V("path", dst))
	}
	return nil
}
