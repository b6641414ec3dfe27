package doctor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericce/interp/internal/config"
)

func TestRunAllReachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.ASR.URL = srv.URL
	cfg.MT.URL = srv.URL

	report := Run(context.Background(), cfg)
	require.True(t, report.OK(), report.String())
	require.Len(t, report.Checks, 2)
}

func TestRunUnreachableBackend(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.ASR.URL = srv.URL
	cfg.MT.URL = "http://127.0.0.1:1" // nothing listens there

	report := Run(context.Background(), cfg)
	require.False(t, report.OK())
	require.Contains(t, report.String(), "FAIL")
	require.Contains(t, report.String(), "OK")
}
