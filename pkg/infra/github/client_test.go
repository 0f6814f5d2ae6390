package github_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	githubinfra "github.com/m-mizutani/ghfeed/pkg/infra/github"
	"github.com/m-mizutani/gt"
)

var testRepo = types.RepoName{Owner: "octo", Name: "feed"}

// newTestClient starts a fake GitHub API serving mux and returns a client bound to it
func newTestClient(t *testing.T, mux *http.ServeMux) (interfaces.GitHubAPI, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := githubinfra.NewClient(server.Client(),
		githubinfra.WithBaseURL(server.URL),
		githubinfra.WithToken("test-token"),
	)
	gt.NoError(t, err)
	return client, server
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestClient_ListReleases(t *testing.T) {
	mux := http.NewServeMux()
	var serverURL string
	mux.HandleFunc("GET /repos/octo/feed/releases", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/feed/releases?page=2&per_page=100>; rel="next"`, serverURL))
			writeJSON(w, `[
				{"tag_name":"v2.0.0-rc1","prerelease":true,"published_at":"2024-03-01T00:00:00Z","assets":[]},
				{"tag_name":"v1.1.0","prerelease":false,"published_at":"2024-02-01T00:00:00Z","assets":[
					{"name":"feed_linux_amd64.tar.gz","browser_download_url":"https://example.com/linux"},
					{"name":"feed_darwin_arm64.tar.gz","browser_download_url":"https://example.com/darwin"}
				]}
			]`)
		case "2":
			writeJSON(w, `[
				{"tag_name":"v1.0.0","prerelease":false,"published_at":"2024-01-01T00:00:00Z","assets":[
					{"name":"feed.zip","browser_download_url":"https://example.com/zip"}
				]}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	client, server := newTestClient(t, mux)
	serverURL = server.URL

	releases, err := client.ListReleases(context.Background(), testRepo)
	gt.NoError(t, err)
	gt.A(t, releases).Length(3)

	gt.Value(t, releases[0].Tag).Equal("v2.0.0-rc1")
	gt.Bool(t, releases[0].Prerelease).True()
	gt.A(t, releases[0].Assets).Length(0)

	gt.Value(t, releases[1].Tag).Equal("v1.1.0")
	gt.A(t, releases[1].Assets).Length(2)
	gt.Value(t, releases[1].Assets[0].Name).Equal("feed_linux_amd64.tar.gz")
	gt.Value(t, releases[1].Assets[1].DownloadURL).Equal("https://example.com/darwin")
	gt.Value(t, releases[1].PublishedAt.Year()).Equal(2024)

	gt.Value(t, releases[2].Tag).Equal("v1.0.0")
	gt.A(t, releases[2].Assets).Length(1)
}

func TestClient_ListReleases_MissingTag(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/feed/releases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"id":1,"prerelease":false,"assets":[]}]`)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.ListReleases(context.Background(), testRepo)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("malformed release")
}

func TestClient_ListReleases_MalformedJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/feed/releases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"not":"a list"`)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.ListReleases(context.Background(), testRepo)
	gt.Error(t, err)
}

func TestClient_LatestRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/feed/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"tag_name":"v1.1.0","prerelease":false,"published_at":"2024-02-01T00:00:00Z","assets":[]}`)
	})
	mux.HandleFunc("GET /repos/octo/feed/releases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"tag_name":"v2.0.0-draft","draft":true,"prerelease":false,"assets":[]},
			{"tag_name":"v2.0.0-rc1","prerelease":true,"published_at":"2024-03-01T00:00:00Z","assets":[]},
			{"tag_name":"v1.1.0","prerelease":false,"published_at":"2024-02-01T00:00:00Z","assets":[]}
		]`)
	})
	client, _ := newTestClient(t, mux)

	t.Run("stable only", func(t *testing.T) {
		release, err := client.LatestRelease(context.Background(), testRepo, false)
		gt.NoError(t, err)
		gt.Value(t, release.Tag).Equal("v1.1.0")
		gt.Bool(t, release.Prerelease).False()
	})

	t.Run("prerelease allowed skips drafts", func(t *testing.T) {
		release, err := client.LatestRelease(context.Background(), testRepo, true)
		gt.NoError(t, err)
		gt.Value(t, release.Tag).Equal("v2.0.0-rc1")
		gt.Bool(t, release.Prerelease).True()
	})
}

func TestClient_LatestRelease_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/feed/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	mux.HandleFunc("GET /repos/octo/feed/releases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"tag_name":"v0.1.0","draft":true,"assets":[]}]`)
	})
	client, _ := newTestClient(t, mux)

	_, err := client.LatestRelease(context.Background(), testRepo, false)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrNotFound)).True()

	_, err = client.LatestRelease(context.Background(), testRepo, true)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrNotFound)).True()
}

func TestClient_ListContributors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/feed/contributors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"login":"a","avatar_url":"https://avatars.example.com/a","html_url":"https://github.com/a","contributions":5},
			{"login":"b","avatar_url":"https://avatars.example.com/b","html_url":"https://github.com/b","contributions":9},
			{"login":"c","avatar_url":"https://avatars.example.com/c","html_url":"https://github.com/c","contributions":5},
			{"login":"d","avatar_url":"https://avatars.example.com/d","html_url":"https://github.com/d","contributions":12}
		]`)
	})
	client, _ := newTestClient(t, mux)

	contributors, err := client.ListContributors(context.Background(), testRepo)
	gt.NoError(t, err)
	gt.A(t, contributors).Length(4)

	var names []string
	for _, c := range contributors {
		names = append(names, c.Username)
	}
	// descending by count, ties keep API order
	gt.Value(t, names).Equal([]string{"d", "b", "a", "c"})

	gt.Value(t, contributors[1].Avatar).Equal("https://avatars.example.com/b")
	gt.Value(t, contributors[1].Link).Equal("https://github.com/b")
}

func TestClient_ListContributors_Example(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/feed/contributors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[{"login":"a","contributions":5},{"login":"b","contributions":9}]`)
	})
	client, _ := newTestClient(t, mux)

	contributors, err := client.ListContributors(context.Background(), testRepo)
	gt.NoError(t, err)
	gt.A(t, contributors).Length(2)
	gt.Value(t, contributors[0].Username).Equal("b")
	gt.Value(t, contributors[1].Username).Equal("a")
}

func TestClient_ListMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/octo/members", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `[
			{"login":"zed","avatar_url":"https://avatars.example.com/zed","html_url":"https://github.com/zed"},
			{"login":"amy","avatar_url":"https://avatars.example.com/amy","html_url":"https://github.com/amy"}
		]`)
	})
	client, _ := newTestClient(t, mux)

	members, err := client.ListMembers(context.Background(), "octo")
	gt.NoError(t, err)
	gt.A(t, members).Length(2)
	// API order, not sorted
	gt.Value(t, members[0].Username).Equal("zed")
	gt.Value(t, members[1].Username).Equal("amy")
	gt.Value(t, members[1].Link).Equal("https://github.com/amy")
}

func TestClient_RateLimit(t *testing.T) {
	tests := []struct {
		name        string
		remaining   int
		wantLimited bool
	}{
		{name: "exhausted", remaining: 0, wantLimited: true},
		{name: "one left", remaining: 1, wantLimited: false},
		{name: "plenty", remaining: 4999, wantLimited: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /rate_limit", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, fmt.Sprintf(`{
					"resources":{"core":{"limit":5000,"remaining":%d,"reset":1700000000}},
					"rate":{"limit":5000,"remaining":%d,"reset":1700000000}
				}`, tt.remaining, tt.remaining))
			})
			client, _ := newTestClient(t, mux)
			ctx := context.Background()

			limited, err := client.IsRateLimited(ctx)
			gt.NoError(t, err)
			gt.Value(t, limited).Equal(tt.wantLimited)

			rate, err := client.RateLimit(ctx)
			gt.NoError(t, err)
			gt.Value(t, rate.Remaining).Equal(tt.remaining)
			gt.Value(t, rate.Limit).Equal(5000)

			err = client.CheckAvailability(ctx)
			if tt.wantLimited {
				gt.Error(t, err)
				gt.Bool(t, errors.Is(err, types.ErrRateLimited)).True()
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestClient_RateLimitedResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/octo/members", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1700000000")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded for 127.0.0.1."}`))
	})
	client, _ := newTestClient(t, mux)

	_, err := client.ListMembers(context.Background(), "octo")
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, types.ErrRateLimited)).True()
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := githubinfra.NewClient(http.DefaultClient, githubinfra.WithBaseURL("://broken"))
	gt.Error(t, err)
}

func TestNewAppTransport_InvalidKey(t *testing.T) {
	_, err := githubinfra.NewAppTransport(http.DefaultTransport, 1, 2, []byte("not a pem"))
	gt.Error(t, err)
}

func TestClient_WithRealAPI(t *testing.T) {
	token := os.Getenv("TEST_GITHUB_TOKEN")
	if token == "" {
		t.Skip("TEST_GITHUB_TOKEN not set")
	}

	client, err := githubinfra.NewClient(&http.Client{}, githubinfra.WithToken(token))
	gt.NoError(t, err)
	ctx := context.Background()

	gt.NoError(t, client.CheckAvailability(ctx))

	releases, err := client.ListReleases(ctx, types.RepoName{Owner: "cli", Name: "cli"})
	gt.NoError(t, err)
	gt.Number(t, len(releases)).Greater(0)

	contributors, err := client.ListContributors(ctx, types.RepoName{Owner: "cli", Name: "cli"})
	gt.NoError(t, err)
	gt.Number(t, len(contributors)).Greater(0)
}
