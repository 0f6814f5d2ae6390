package model

import (
	"path"

	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Output sink kinds
const (
	SinkLocal = "local"
	SinkGCS   = "gcs"
)

// Config is the generation config loaded from file
type Config struct {
	Output  Output  `toml:"output" yaml:"output" json:"output"`
	Entries []Entry `toml:"api" yaml:"api" json:"api"`
}

// Output describes where generated artifacts are written
type Output struct {
	Sink   string `toml:"sink" yaml:"sink" json:"sink"`
	Path   string `toml:"path" yaml:"path" json:"path"`
	Bucket string `toml:"bucket" yaml:"bucket" json:"bucket"`
}

// Entry is one API target with the generators to run against it
type Entry struct {
	Repository   string   `toml:"repository" yaml:"repository" json:"repository,omitempty"`
	Organization string   `toml:"organization" yaml:"organization" json:"organization,omitempty"`
	Generators   []string `toml:"generators" yaml:"generators" json:"generators"`

	// Prerelease lets generators that pick a single release choose a prerelease
	Prerelease bool `toml:"prerelease" yaml:"prerelease" json:"prerelease,omitempty"`
}

// ID returns the repository if set, otherwise the organization.
func (x *Entry) ID() string {
	if x.Repository != "" {
		return x.Repository
	}
	return x.Organization
}

// Repo parses the repository of the entry.
func (x *Entry) Repo() (types.RepoName, error) {
	if x.Repository == "" {
		return types.RepoName{}, goerr.Wrap(types.ErrMissingIdentifier, "entry has no repository", goerr.V("entry", x.ID()))
	}
	return types.ParseRepoName(x.Repository)
}

// Org returns the organization of the entry.
func (x *Entry) Org() (string, error) {
	if x.Organization == "" {
		return "", goerr.Wrap(types.ErrMissingIdentifier, "entry has no organization", goerr.V("entry", x.ID()))
	}
	return x.Organization, nil
}

// ObjectPath builds the destination path of an artifact. The local sink is
// rooted at Path by its writer, so Path is only prepended for object storage.
func (x *Output) ObjectPath(elem ...string) string {
	if x.Sink == SinkGCS && x.Path != "" {
		return path.Join(append([]string{x.Path}, elem...)...)
	}
	return path.Join(elem...)
}

// Validate checks the config. Defaults are applied to Output.
func (x *Config) Validate() error {
	if x.Output.Sink == "" {
		x.Output.Sink = SinkLocal
	}

	switch x.Output.Sink {
	case SinkLocal:
		if x.Output.Path == "" {
			return goerr.Wrap(types.ErrInvalidConfig, "output.path is required for local sink")
		}
	case SinkGCS:
		if x.Output.Bucket == "" {
			return goerr.Wrap(types.ErrInvalidConfig, "output.bucket is required for gcs sink")
		}
	default:
		return goerr.Wrap(types.ErrInvalidConfig, "unknown output sink", goerr.V("sink", x.Output.Sink))
	}

	if len(x.Entries) == 0 {
		return goerr.Wrap(types.ErrInvalidConfig, "no api entry")
	}

	for i, entry := range x.Entries {
		if entry.Repository == "" && entry.Organization == "" {
			return goerr.Wrap(types.ErrInvalidConfig, "api entry needs repository or organization", goerr.V("index", i))
		}
		if entry.Repository != "" {
			if _, err := types.ParseRepoName(entry.Repository); err != nil {
				return goerr.Wrap(err, "invalid api entry", goerr.V("index", i))
			}
		}
	}

	return nil
}

// EntriesFor returns entries whose repository matches repo.
func (x *Config) EntriesFor(repo types.RepoName) []Entry {
	var result []Entry
	for _, entry := range x.Entries {
		name, err := types.ParseRepoName(entry.Repository)
		if err != nil {
			continue
		}
		if name == repo {
			result = append(result, entry)
		}
	}
	return result
}
