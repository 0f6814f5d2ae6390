package generator_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/generator"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"
)

func newDigestLLM(capture *[]gollem.Input, texts []string, err error) *mock.LLMClientMock {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					*capture = input
					if err != nil {
						return nil, err
					}
					return &gollem.Response{Texts: texts}, nil
				},
			}, nil
		},
	}
}

func TestDigest(t *testing.T) {
	ctx := context.Background()

	t.Run("summarizes stable releases", func(t *testing.T) {
		var captured []gollem.Input
		llm := newDigestLLM(&captured, []string{"Stable release with exporter.\n"}, nil)
		writer := newMemoryWriter()

		gen, err := generator.NewDigest(&fakeAPI{releases: testReleases()}, writer, llm)
		gt.NoError(t, err)
		gt.NoError(t, gen.Generate(ctx, &model.Entry{Repository: "acme/tool"}, localOutput))

		gt.A(t, captured).Length(1)
		prompt := fmt.Sprint(captured[0])
		gt.String(t, prompt).Contains("Initial stable release")
		gt.Bool(t, strings.Contains(prompt, "Try the new exporter")).False()

		obj, ok := writer.get("acme/tool/digest.md")
		gt.Bool(t, ok).True()
		gt.String(t, string(obj.data)).Contains("# Release digest of acme/tool")
		gt.String(t, string(obj.data)).Contains("Stable release with exporter.")
	})

	t.Run("no release skips LLM", func(t *testing.T) {
		llm := &mock.LLMClientMock{
			NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("must not be called")
			},
		}
		writer := newMemoryWriter()

		gen, err := generator.NewDigest(&fakeAPI{}, writer, llm)
		gt.NoError(t, err)
		gt.NoError(t, gen.Generate(ctx, &model.Entry{Repository: "acme/tool"}, localOutput))

		obj, ok := writer.get("acme/tool/digest.md")
		gt.Bool(t, ok).True()
		gt.String(t, string(obj.data)).Contains("No release yet.")
	})

	t.Run("LLM failure", func(t *testing.T) {
		var captured []gollem.Input
		llm := newDigestLLM(&captured, nil, errors.New("quota exceeded"))
		writer := newMemoryWriter()

		gen, err := generator.NewDigest(&fakeAPI{releases: testReleases()}, writer, llm)
		gt.NoError(t, err)
		gt.Error(t, gen.Generate(ctx, &model.Entry{Repository: "acme/tool"}, localOutput))

		_, ok := writer.get("acme/tool/digest.md")
		gt.Bool(t, ok).False()
	})

	t.Run("empty response", func(t *testing.T) {
		var captured []gollem.Input
		llm := newDigestLLM(&captured, nil, nil)

		gen, err := generator.NewDigest(&fakeAPI{releases: testReleases()}, newMemoryWriter(), llm)
		gt.NoError(t, err)
		gt.Error(t, gen.Generate(ctx, &model.Entry{Repository: "acme/tool"}, localOutput))
	})
}

func TestDigest_Gemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT_ID not set, skipping integration test")
	}

	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	ctx := context.Background()
	llm, err := gemini.New(ctx, projectID, location,
		gemini.WithModel("gemini-2.5-flash"),
	)
	gt.NoError(t, err)

	writer := newMemoryWriter()
	gen, err := generator.NewDigest(&fakeAPI{releases: testReleases()}, writer, llm)
	gt.NoError(t, err)
	gt.NoError(t, gen.Generate(ctx, &model.Entry{Repository: "acme/tool"}, localOutput))

	obj, ok := writer.get("acme/tool/digest.md")
	gt.Bool(t, ok).True()
	gt.Number(t, len(obj.data)).Greater(0)
}
