package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/config"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

// ErrMissingParameter is returned, wrapped with the parameter name, when a
// required identifier is empty. No request is sent in that case.
var ErrMissingParameter = errors.New("missing required parameter")

// Upstream is the transport the Gateway needs.
type Upstream interface {
	Do(ctx context.Context, req storage.Request) (json.RawMessage, error)
	DoRaw(ctx context.Context, req storage.Request) ([]byte, string, error)
	Probe(ctx context.Context) bool
}

// Gateway maps vector store operations onto single upstream requests. It
// keeps no state between calls and is safe for concurrent use.
type Gateway struct {
	upstream Upstream
}

func NewGateway(upstream Upstream) *Gateway {
	return &Gateway{upstream: upstream}
}

// NewGatewayFromConfig builds the upstream client from cfg. Extra options
// are applied after the ones derived from cfg.
func NewGatewayFromConfig(cfg *config.Config, opts ...storage.Option) *Gateway {
	base := []storage.Option{
		storage.WithBaseURL(cfg.OpenAIBaseURL),
		storage.WithOrganization(cfg.OpenAIOrganization),
		storage.WithDebugLogging(cfg.Debug),
	}
	client := storage.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBetaHeader, append(base, opts...)...)
	return NewGateway(client)
}

// ValidateAPIKey reports whether the configured credential is accepted.
func (g *Gateway) ValidateAPIKey(ctx context.Context) bool {
	return g.upstream.Probe(ctx)
}

// requireIDs checks name/value pairs in order and reports the first empty one.
func requireIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s", ErrMissingParameter, pairs[i])
		}
	}
	return nil
}
