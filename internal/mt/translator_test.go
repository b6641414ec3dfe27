package mt

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func upperEngine(prefix string) Translator {
	return Func(func(_ context.Context, text string, _ string) (string, error) {
		return prefix + ":" + text, nil
	})
}

func TestDirectionsDispatch(t *testing.T) {
	t.Parallel()

	d, err := NewDirections(nil,
		Direction{SrcLang: "en", Engine: upperEngine("en-fr")},
		Direction{SrcLang: "fr", Engine: upperEngine("fr-en")},
	)
	require.NoError(t, err)

	got, err := d.Translate(context.Background(), "hello", "en")
	require.NoError(t, err)
	require.Equal(t, "en-fr:hello", got)

	got, err = d.Translate(context.Background(), "bonjour", "fr")
	require.NoError(t, err)
	require.Equal(t, "fr-en:bonjour", got)
}

func TestDirectionsUnknownSourceFallsBack(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	d, err := NewDirections(logger,
		Direction{SrcLang: "en", Engine: upperEngine("en-fr")},
		Direction{SrcLang: "fr", Engine: upperEngine("fr-en")},
	)
	require.NoError(t, err)

	got, err := d.Translate(context.Background(), "hola", "es")
	require.NoError(t, err)
	require.Equal(t, "en-fr:hola", got)
	require.Contains(t, logBuf.String(), "unknown source language")
}

func TestDirectionsEmptyInput(t *testing.T) {
	t.Parallel()

	d, err := NewDirections(nil, Direction{SrcLang: "en", Engine: upperEngine("x")})
	require.NoError(t, err)

	got, err := d.Translate(context.Background(), "   ", "en")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDirectionsRequiresConfiguration(t *testing.T) {
	t.Parallel()

	_, err := NewDirections(nil)
	require.Error(t, err)

	_, err = NewDirections(nil, Direction{SrcLang: "", Engine: upperEngine("x")})
	require.Error(t, err)
}

func TestClientTranslate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "hello world", in["q"])
		require.Equal(t, "en", in["source"])
		require.Equal(t, "fr", in["target"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translatedText": "bonjour le monde"}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Source: "en", Target: "fr"})
	require.NoError(t, err)

	got, err := c.Translate(context.Background(), "hello world", "en")
	require.NoError(t, err)
	require.Equal(t, "bonjour le monde", got)
}

func TestClientTranslateEmptySkipsRequest(t *testing.T) {
	t.Parallel()

	c, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:9", Source: "en", Target: "fr"})
	require.NoError(t, err)

	got, err := c.Translate(context.Background(), "", "en")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClientTranslateServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such model", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Source: "en", Target: "fr"})
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), "hi", "en")
	require.ErrorContains(t, err, "no such model")
}
