package transcription

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func audioFileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("audio")
	require.NoError(t, err)
	return header
}

func TestTranscribe(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt fake audio bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "voice.wav", header.Filename)

		got, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, audio, got)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "мне тревожно перед сном"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "whisper-1")
	text, err := client.Transcribe(context.Background(), audioFileHeader(t, "voice.wav", audio))
	require.NoError(t, err)
	assert.Equal(t, "мне тревожно перед сном", text)
}

func TestTranscribeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "invalid file"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "whisper-1")
	_, err := client.Transcribe(context.Background(), audioFileHeader(t, "voice.ogg", []byte("x")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
