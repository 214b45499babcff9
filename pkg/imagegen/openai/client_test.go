package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dskvich/imagegen/pkg/config"
	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImage = []byte("\x89PNG\r\n\x1a\nfake image bytes")

var testConfig = config.OpenAIConfig{
	Model:   "gpt-image-1",
	Size:    domain.Size1024x1024,
	Quality: domain.QualityHD,
}

func newTestClient(t *testing.T, baseURL string) *client {
	t.Helper()

	c, err := NewClient("test-key", testConfig)
	require.NoError(t, err)
	c.baseURL = baseURL
	return c
}

func requireFault(t *testing.T, err error, kind domain.FaultKind) *domain.GenerationError {
	t.Helper()

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.ProviderOpenAI, genErr.Provider)
	assert.Equal(t, kind, genErr.Kind)
	return genErr
}

func TestNewClient(t *testing.T) {
	t.Run("rejects empty api key", func(t *testing.T) {
		_, err := NewClient("", testConfig)
		require.Error(t, err)
	})

	t.Run("keeps the provider sub-configuration", func(t *testing.T) {
		c, err := NewClient("test-key", testConfig)
		require.NoError(t, err)
		assert.Equal(t, testConfig, c.cfg)
	})
}

func TestClient_Generate(t *testing.T) {
	t.Run("writes decoded image and returns the path", func(t *testing.T) {
		var gotReq imageGenerationRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/images/generations", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			fmt.Fprintf(w, `{"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString(testImage))
		}))
		defer srv.Close()

		outputPath := filepath.Join(t.TempDir(), "out.png")

		path, err := newTestClient(t, srv.URL).Generate(context.Background(), "a red fox in the snow", outputPath)
		require.NoError(t, err)
		assert.Equal(t, outputPath, path)

		written, err := os.ReadFile(outputPath)
		require.NoError(t, err)
		assert.Equal(t, testImage, written)

		assert.Equal(t, "gpt-image-1", gotReq.Model)
		assert.Equal(t, "a red fox in the snow", gotReq.Prompt)
		assert.Equal(t, 1, gotReq.N)
		assert.Equal(t, "1024x1024", gotReq.Size)
		assert.Equal(t, "hd", gotReq.Quality)
		assert.Empty(t, gotReq.Style)
	})

	t.Run("non-2xx status is a backend fault carrying the status code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"message":"invalid prompt"}}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		outputPath := filepath.Join(t.TempDir(), "out.png")

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), "prompt", outputPath)
		requireFault(t, err, domain.FaultBackend)
		assert.Contains(t, err.Error(), "400")
		assert.Contains(t, err.Error(), "invalid prompt")
		assert.NoFileExists(t, outputPath)
	})

	t.Run("empty data list is a response-shape fault", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		}))
		defer srv.Close()

		outputPath := filepath.Join(t.TempDir(), "out.png")

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), "prompt", outputPath)
		requireFault(t, err, domain.FaultResponseShape)
		assert.NoFileExists(t, outputPath)
	})

	t.Run("invalid base64 payload is a response-shape fault", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"data":[{"b64_json":"not-base64!!!"}]}`)
		}))
		defer srv.Close()

		outputPath := filepath.Join(t.TempDir(), "out.png")

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), "prompt", outputPath)
		requireFault(t, err, domain.FaultResponseShape)
		assert.NoFileExists(t, outputPath)
	})

	t.Run("unreachable backend is a transport fault", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		srv.Close()

		outputPath := filepath.Join(t.TempDir(), "out.png")

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), "prompt", outputPath)
		requireFault(t, err, domain.FaultTransport)
		assert.NoFileExists(t, outputPath)
	})

	t.Run("unwritable destination is a local-io fault", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, `{"data":[{"b64_json":%q}]}`, base64.StdEncoding.EncodeToString(testImage))
		}))
		defer srv.Close()

		outputPath := filepath.Join(t.TempDir(), "missing", "out.png")

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), "prompt", outputPath)
		requireFault(t, err, domain.FaultLocalIO)
		assert.NoFileExists(t, outputPath)
	})

	t.Run("cancelled context fails without a partial file", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		outputPath := filepath.Join(t.TempDir(), "out.png")

		_, err := newTestClient(t, srv.URL).Generate(ctx, "prompt", outputPath)
		requireFault(t, err, domain.FaultTransport)
		assert.NoFileExists(t, outputPath)
	})
}
