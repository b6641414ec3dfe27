// Package doctor runs startup readiness diagnostics against the inference backends.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ericce/interp/internal/config"
)

const probeTimeout = 3 * time.Second

// Check is one diagnostic result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full diagnostic output.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run probes the ASR and MT endpoints for reachability.
func Run(ctx context.Context, cfg config.Config) Report {
	return Report{Checks: []Check{
		checkEndpoint(ctx, "asr", cfg.ASR.URL),
		checkEndpoint(ctx, "mt", cfg.MT.URL),
	}}
}

// checkEndpoint considers any HTTP response proof of reachability; only a
// failed connection fails the check.
func checkEndpoint(ctx context.Context, name, baseURL string) Check {
	reqCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, baseURL, nil)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("bad URL %q: %v", baseURL, err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("unreachable at %q: %v", baseURL, err)}
	}
	_ = resp.Body.Close()
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("reachable at %q (%s)", baseURL, resp.Status)}
}
