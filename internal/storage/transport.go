package storage

import (
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// authTransport stamps every outbound request with the credential and the
// fixed API headers.
type authTransport struct {
	base         http.RoundTripper
	apiKey       string
	betaHeader   string
	organization string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.apiKey)
	r.Header.Set("Content-Type", "application/json")
	if t.betaHeader != "" {
		r.Header.Set("OpenAI-Beta", t.betaHeader)
	}
	if t.organization != "" {
		r.Header.Set("OpenAI-Organization", t.organization)
	}
	return t.base.RoundTrip(r)
}

// debugTransport dumps requests and responses at debug level. The bearer
// token is redacted from request dumps.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if dump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", redactAuth(string(dump))).Msg("upstream request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("upstream request failed")
		return nil, err
	}

	if dump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(dump)).Msg("upstream response")
	}
	return resp, nil
}

func redactAuth(dump string) string {
	lines := strings.Split(dump, "\r\n")
	for i, l := range lines {
		if strings.HasPrefix(strings.ToLower(l), "authorization:") {
			lines[i] = "Authorization: Bearer [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}

func debugLoggingRequested() bool {
	return os.Getenv("VSMCP_DEBUG") == "true"
}
