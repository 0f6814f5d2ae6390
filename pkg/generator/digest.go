package generator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompts/digest_system.md
var digestSystemPrompt string

//go:embed prompts/digest_user.md
var digestUserPromptTemplate string

// DigestReleaseCount is the number of most recent releases summarized
const DigestReleaseCount = 5

type digest struct {
	api          interfaces.GitHubAPI
	writer       interfaces.Writer
	llmClient    gollem.LLMClient
	userTemplate *template.Template
}

// NewDigest creates the generator asking an LLM to summarize recent release
// notes into digest.md
func NewDigest(api interfaces.GitHubAPI, writer interfaces.Writer, llmClient gollem.LLMClient) (interfaces.Generator, error) {
	tmpl, err := template.New("digest").Parse(digestUserPromptTemplate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse digest prompt template")
	}

	return &digest{
		api:          api,
		writer:       writer,
		llmClient:    llmClient,
		userTemplate: tmpl,
	}, nil
}

func (g *digest) Generate(ctx context.Context, entry *model.Entry, output *model.Output) error {
	logger := ctxlog.From(ctx)

	repo, err := entry.Repo()
	if err != nil {
		return err
	}

	list, err := g.api.ListReleases(ctx, repo)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch releases")
	}
	if !entry.Prerelease {
		list = model.Stable(list)
	}
	if len(list) > DigestReleaseCount {
		list = list[:DigestReleaseCount]
	}

	var summary string
	if len(list) == 0 {
		summary = "No release yet.\n"
	} else {
		var buf bytes.Buffer
		if err := g.userTemplate.Execute(&buf, map[string]any{
			"Repository": repo.String(),
			"Releases":   list,
		}); err != nil {
			return goerr.Wrap(err, "failed to execute digest prompt template")
		}

		logger.Debug("Calling LLM for release digest",
			"repository", repo.String(),
			"release_count", len(list),
			"prompt_length", buf.Len(),
		)

		session, err := g.llmClient.NewSession(ctx,
			gollem.WithSessionSystemPrompt(digestSystemPrompt),
		)
		if err != nil {
			return goerr.Wrap(err, "failed to create LLM session")
		}

		resp, err := session.GenerateContent(ctx, gollem.Text(buf.String()))
		if err != nil {
			return goerr.Wrap(err, "failed to generate LLM content", goerr.V("repository", repo.String()))
		}
		if len(resp.Texts) == 0 {
			return goerr.New("no response from LLM", goerr.V("repository", repo.String()))
		}
		summary = strings.TrimSpace(strings.Join(resp.Texts, "")) + "\n"
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "# Release digest of %s\n\n", repo.String())
	doc.WriteString(summary)

	dst := output.ObjectPath(repo.Owner, repo.Name, "digest.md")
	if err := g.writer.Put(ctx, dst, contentTypeMarkdown, []byte(doc.String())); err != nil {
		return goerr.Wrap(err, "failed to write digest", goerr.V("path", dst))
	}

	logger.Info("Generated release digest", "repository", repo.String(), "path", dst)
	return nil
}
