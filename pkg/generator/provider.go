package generator

import (
	"net/http"
	"slices"
	"sync"

	"github.com/m-mizutani/ghfeed/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// Names of built-in generators
const (
	NameReleases     = "releases"
	NameLatest       = "latest"
	NameBadge        = "badge"
	NameContributors = "contributors"
	NameMembers      = "members"
	NameSnapshot     = "snapshot"
	NameDigest       = "digest"
	NameSlack        = "slack"
)

// Provider resolves generators by name
type Provider struct {
	mu         sync.RWMutex
	generators map[string]interfaces.Generator
}

var _ interfaces.GeneratorProvider = (*Provider)(nil)

// NewProvider creates an empty Provider
func NewProvider() *Provider {
	return &Provider{
		generators: make(map[string]interfaces.Generator),
	}
}

// Register adds gen under name. Empty and duplicated names are rejected.
func (p *Provider) Register(name string, gen interfaces.Generator) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if name == "" {
		return goerr.New("generator name is empty")
	}
	if gen == nil {
		return goerr.New("generator is nil", goerr.V("name", name))
	}
	if _, exists := p.generators[name]; exists {
		return goerr.New("generator already registered", goerr.V("name", name))
	}

	p.generators[name] = gen
	return nil
}

// Get returns the generator registered as name
func (p *Provider) Get(name string) (interfaces.Generator, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	gen, ok := p.generators[name]
	return gen, ok
}

// Names returns registered generator names in sorted order
func (p *Provider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.generators))
	for name := range p.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Deps holds what built-in generators need. API and Writer are required.
type Deps struct {
	API    interfaces.GitHubAPI
	Writer interfaces.Writer

	// LLM enables the digest generator
	LLM gollem.LLMClient

	// SlackWebhookURL enables the slack generator
	SlackWebhookURL string
	// SlackHTTPClient is used to post to Slack. http.DefaultClient if nil
	SlackHTTPClient *http.Client

	// Cache lets the slack generator remember the last notified release
	Cache interfaces.Cache
}

// NewDefaultProvider creates a Provider with every built-in generator whose
// dependencies are available in deps
func NewDefaultProvider(deps Deps) (*Provider, error) {
	if deps.API == nil || deps.Writer == nil {
		return nil, goerr.New("API and Writer are required for generators")
	}

	p := NewProvider()
	builtins := map[string]interfaces.Generator{
		NameReleases:     NewReleases(deps.API, deps.Writer),
		NameLatest:       NewLatest(deps.API, deps.Writer),
		NameBadge:        NewBadge(deps.API, deps.Writer),
		NameContributors: NewContributors(deps.API, deps.Writer),
		NameMembers:      NewMembers(deps.API, deps.Writer),
		NameSnapshot:     NewSnapshot(deps.API, deps.Writer),
	}

	if deps.LLM != nil {
		digest, err := NewDigest(deps.API, deps.Writer, deps.LLM)
		if err != nil {
			return nil, err
		}
		builtins[NameDigest] = digest
	}

	if deps.SlackWebhookURL != "" {
		builtins[NameSlack] = NewSlack(deps.API, deps.SlackWebhookURL,
			WithSlackHTTPClient(deps.SlackHTTPClient),
			WithSlackCache(deps.Cache),
		)
	}

	for name, gen := range builtins {
		if err := p.Register(name, gen); err != nil {
			return nil, err
		}
	}

	return p, nil
}
