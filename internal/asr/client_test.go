package asr

import (
	"context"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranscribeEmptyInputSkipsRequest(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected for empty input")
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := c.Transcribe(context.Background(), nil, "en")
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestTranscribeRequiresLanguage(t *testing.T) {
	t.Parallel()

	c, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:9"})
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), []float32{0.1}, "")
	require.ErrorIs(t, err, ErrNoLanguage)
}

func TestTranscribeUploadsWindow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "fr", r.FormValue("language"))
		require.Equal(t, "small", r.FormValue("model"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		header := make([]byte, 44)
		_, err = file.Read(header)
		require.NoError(t, err)
		require.Equal(t, "RIFF", string(header[0:4]))
		require.Equal(t, uint32(16000), binary.LittleEndian.Uint32(header[24:28]))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  bonjour tout le monde "}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Model: "small"})
	require.NoError(t, err)

	text, err := c.Transcribe(context.Background(), []float32{0, 0.5, -0.5}, "fr")
	require.NoError(t, err)
	require.Equal(t, "bonjour tout le monde", text)
}

func TestTranscribeServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Transcribe(context.Background(), []float32{0.1}, "en")
	require.ErrorContains(t, err, "model not loaded")
}

func TestEncodeWAVClipsAndScales(t *testing.T) {
	t.Parallel()

	blob := encodeWAV([]float32{0, 1, -1, 2, -2}, 16000)
	require.Len(t, blob, 44+10)

	data := blob[44:]
	require.Equal(t, int16(0), int16(binary.LittleEndian.Uint16(data[0:2])))
	require.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(data[2:4])))
	require.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(data[4:6])))
	require.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(data[6:8])))
	require.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(data[8:10])))
}
