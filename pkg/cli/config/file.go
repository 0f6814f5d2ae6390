package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ghfeed/pkg/domain/model"
	"github.com/m-mizutani/ghfeed/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// File holds the path of the generation config file
type File struct {
	Path string
}

// Flags returns CLI flags for the config file
func (c *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Generation config file (.toml, .yaml or .yml)",
			Value:       "ghfeed.toml",
			Destination: &c.Path,
			Sources:     cli.EnvVars("GHFEED_CONFIG"),
		},
	}
}

// Load reads and validates the config file
func (c *File) Load() (*model.Config, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", c.Path))
	}

	cfg, err := ParseConfig(filepath.Ext(c.Path), data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load config file", goerr.V("path", c.Path))
	}
	return cfg, nil
}

// ParseConfig decodes data by the format of file extension ext and validates it
func ParseConfig(ext string, data []byte) (*model.Config, error) {
	var cfg model.Config

	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "failed to decode TOML", goerr.V("error", err.Error()))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "failed to decode YAML", goerr.V("error", err.Error()))
		}
	default:
		return nil, goerr.Wrap(types.ErrInvalidConfig, "unsupported config file extension", goerr.V("ext", ext))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
