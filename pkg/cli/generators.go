package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/ghfeed/pkg/cli/config"
	"github.com/m-mizutani/ghfeed/pkg/generator"
	"github.com/urfave/cli/v3"
)

type generatorInfo struct {
	name     string
	target   string
	output   string
	requires string
}

var builtinGenerators = []generatorInfo{
	{name: generator.NameBadge, target: "repository", output: "badge.svg"},
	{name: generator.NameContributors, target: "repository", output: "contributors.md"},
	{name: generator.NameDigest, target: "repository", output: "digest.md", requires: "gemini-project-id"},
	{name: generator.NameLatest, target: "repository", output: "latest.json"},
	{name: generator.NameMembers, target: "organization", output: "members.md"},
	{name: generator.NameReleases, target: "repository", output: "releases.md"},
	{name: generator.NameSlack, target: "repository", output: "Slack message", requires: "slack-webhook-url"},
	{name: generator.NameSnapshot, target: "either", output: "snapshot.json"},
}

func cmdGenerators() *cli.Command {
	var (
		geminiCfg config.Gemini
		slackCfg  config.Slack
	)

	flags := append(geminiCfg.Flags(), slackCfg.Flags()...)

	return &cli.Command{
		Name:  "generators",
		Usage: "List available generators",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			enabled := map[string]bool{
				"gemini-project-id": geminiCfg.ProjectID != "",
				"slack-webhook-url": slackCfg.WebhookURL != "",
			}
			printGenerators(c.Root().Writer, enabled)
			return nil
		},
	}
}

func printGenerators(w io.Writer, enabled map[string]bool) {
	nameColor := color.New(color.FgCyan, color.Bold)
	disabled := color.New(color.FgHiBlack)

	for _, g := range builtinGenerators {
		line := fmt.Sprintf("%-13s %-12s -> %s", nameColor.Sprint(g.name), g.target, g.output)
		if g.requires != "" && !enabled[g.requires] {
			line += disabled.Sprintf("  (disabled, set --%s)", g.requires)
		}
		fmt.Fprintln(w, line)
	}
}
