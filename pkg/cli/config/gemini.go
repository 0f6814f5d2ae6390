package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini holds Gemini LLM configuration. The digest generator is enabled
// only if ProjectID is set.
type Gemini struct {
	ProjectID string
	Location  string
	Model     string
}

// Flags returns CLI flags for Gemini configuration
func (c *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "Google Cloud Project ID for Gemini (enables digest generator)",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("GHFEED_GEMINI_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI location/region",
			Value:       "us-central1",
			Destination: &c.Location,
			Sources:     cli.EnvVars("GHFEED_GEMINI_LOCATION"),
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model to use",
			Value:       "gemini-2.5-flash",
			Destination: &c.Model,
			Sources:     cli.EnvVars("GHFEED_GEMINI_MODEL"),
		},
	}
}

// NewLLMClient creates the Gemini client, or returns nil if not configured
func (c *Gemini) NewLLMClient(ctx context.Context) (gollem.LLMClient, error) {
	if c.ProjectID == "" {
		return nil, nil
	}

	var opts []gemini.Option
	if c.Model != "" {
		opts = append(opts, gemini.WithModel(c.Model))
	}

	client, err := gemini.New(ctx, c.ProjectID, c.Location, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", c.ProjectID),
			goerr.V("location", c.Location),
		)
	}
	return client, nil
}
