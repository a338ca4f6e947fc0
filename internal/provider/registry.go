// Package provider connects the updater to release-hosting services.
//
// Each backend package (github, gitlab) exposes a Register function that adds a
// Factory to a Registry; the CLI builds the registry once and creates the
// configured backend by name.
package provider

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/localcc/autoupdater/internal/update"
)

// Source is a release backend that also knows which headers asset downloads need.
type Source interface {
	update.Backend

	// AuthHeaders returns the headers to send with asset downloads, empty when
	// no token is configured.
	AuthHeaders() http.Header
}

// Settings carries what a factory needs to build a Source.
type Settings struct {
	Owner      string // GitHub repository owner
	Repo       string // GitHub repository name
	Project    string // GitLab project path or numeric ID
	BaseURL    string // API base URL; empty selects the public service
	Token      string // Empty for unauthenticated access
	HTTPClient *http.Client
}

// ProviderInfo describes a registered provider.
type ProviderInfo struct {
	Name        string
	Description string
	Hosts       []string // Host names that identify this provider in an API URL
	Priority    int      // Higher priority is listed and detected first
}

// Factory creates a Source from settings.
type Factory func(ctx context.Context, s Settings) (Source, error)

type registeredProvider struct {
	info    ProviderInfo
	factory Factory
}

// Registry manages provider registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]registeredProvider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]registeredProvider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(info ProviderInfo, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[info.Name]; exists {
		return fmt.Errorf("provider %s already registered", info.Name)
	}

	r.providers[info.Name] = registeredProvider{
		info:    info,
		factory: factory,
	}

	return nil
}

// Get returns provider info and factory by name.
func (r *Registry) Get(name string) (ProviderInfo, Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rp, ok := r.providers[name]
	if !ok {
		return ProviderInfo{}, nil, false
	}

	return rp.info, rp.factory, true
}

// List returns all registered providers sorted by priority (highest first), then name.
func (r *Registry) List() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProviderInfo, 0, len(r.providers))
	for _, rp := range r.providers {
		infos = append(infos, rp.info)
	}

	slices.SortFunc(infos, func(a, b ProviderInfo) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return infos
}

// Detect returns the provider whose Hosts match the host of apiURL.
// A host matches when it equals a registered host or is a subdomain of one,
// or when its first label names the provider ("gitlab.example.com").
func (r *Registry) Detect(apiURL string) (string, bool) {
	u, err := url.Parse(apiURL)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())

	for _, info := range r.List() {
		for _, h := range info.Hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return info.Name, true
			}
		}
		if strings.HasPrefix(host, info.Name+".") {
			return info.Name, true
		}
	}

	return "", false
}

// Create creates a Source by provider name.
func (r *Registry) Create(ctx context.Context, name string, s Settings) (Source, error) {
	info, factory, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %s)", name, strings.Join(r.names(), ", "))
	}

	src, err := factory(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("create provider %s: %w", info.Name, err)
	}

	return src, nil
}

func (r *Registry) names() []string {
	infos := r.List()
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}

	return names
}
