package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/ghfeed/pkg/cli/config"
	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

const tomlConfig = `
[output]
sink = "local"
path = "./dist"

[[api]]
repository = "acme/tool"
generators = ["releases", "badge"]
prerelease = true

[[api]]
organization = "acme"
generators = ["members"]
`

const yamlConfig = `
output:
  sink: gcs
  bucket: acme-site
  path: feeds
api:
  - repository: acme/tool
    generators: [releases, contributors]
  - organization: acme
    generators: [members]
`

func TestParseConfig(t *testing.T) {
	t.Run("TOML", func(t *testing.T) {
		cfg, err := config.ParseConfig(".toml", []byte(tomlConfig))
		gt.NoError(t, err)
		gt.Value(t, cfg.Output).Equal(model.Output{Sink: model.SinkLocal, Path: "./dist"})
		gt.A(t, cfg.Entries).Length(2)
		gt.Value(t, cfg.Entries[0]).Equal(model.Entry{
			Repository: "acme/tool",
			Generators: []string{"releases", "badge"},
			Prerelease: true,
		})
		gt.Value(t, cfg.Entries[1].Organization).Equal("acme")
	})

	t.Run("YAML", func(t *testing.T) {
		for _, ext := range []string{".yaml", ".yml", ".YAML"} {
			cfg, err := config.ParseConfig(ext, []byte(yamlConfig))
			gt.NoError(t, err)
			gt.Value(t, cfg.Output).Equal(model.Output{Sink: model.SinkGCS, Bucket: "acme-site", Path: "feeds"})
			gt.Value(t, cfg.Entries[0].Generators).Equal([]string{"releases", "contributors"})
		}
	})

	tests := []struct {
		name string
		ext  string
		data string
	}{
		{name: "unsupported extension", ext: ".json", data: `{}`},
		{name: "broken TOML", ext: ".toml", data: `[output`},
		{name: "unknown TOML field", ext: ".toml", data: tomlConfig + "\nunknown = 1\n"},
		{name: "unknown YAML field", ext: ".yaml", data: yamlConfig + "extra: true\n"},
		{name: "no entries", ext: ".toml", data: "[output]\npath = \"./dist\"\n"},
		{name: "entry without identifier", ext: ".toml", data: "[output]\npath = \"./dist\"\n[[api]]\ngenerators = [\"releases\"]\n"},
		{name: "malformed repository", ext: ".toml", data: "[output]\npath = \"./dist\"\n[[api]]\nrepository = \"acme\"\n"},
		{name: "unknown sink", ext: ".toml", data: "[output]\nsink = \"s3\"\n[[api]]\norganization = \"acme\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.ParseConfig(tt.ext, []byte(tt.data))
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, types.ErrInvalidConfig)).True()
		})
	}
}

func TestFile_Load(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "ghfeed.toml")
	gt.NoError(t, os.WriteFile(path, []byte(tomlConfig), 0600))

	cfg, err := (&config.File{Path: path}).Load()
	gt.NoError(t, err)
	gt.A(t, cfg.Entries).Length(2)

	_, err = (&config.File{Path: filepath.Join(dir, "missing.toml")}).Load()
	gt.Error(t, err)
}
