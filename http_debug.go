package client

import (
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/rs/zerolog/log"
)

// debugTransport dumps each request and response for troubleshooting API
// communication problems (timeouts, malformed requests, unexpected
// responses).
//
// Enable it with WithDebugLogging(true) or by setting POTARIN_DEBUG=true
// (or DEBUG=true). Dumps include full bodies, so keep it out of
// production.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

func defaultTransport() http.RoundTripper { return http.DefaultTransport }

// debugLoggingRequested checks whether HTTP debug logging should be
// enabled from the environment. Both POTARIN_DEBUG and the general DEBUG
// flag are honored.
func debugLoggingRequested() bool {
	return os.Getenv("POTARIN_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
