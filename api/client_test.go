// client_test.go - Unit Tests fuer den HTTP-Client
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient verbindet einen Client mit einem Fake-Server
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return NewClient(base, http.DefaultClient)
}

func TestClientDetect(t *testing.T) {
	expected := DetectResponse{
		Boxes:     []Rect{{X0: 1, Y0: 2, X1: 3, Y1: 4}},
		Available: true,
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/detect", r.URL.Path)

		var req DetectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cat", req.Prompt)

		require.NoError(t, json.NewEncoder(w).Encode(expected))
	})

	resp, err := client.Detect(context.Background(), &DetectRequest{
		Model:  "m",
		Prompt: "cat",
		Image:  []byte{1, 2, 3},
	})
	require.NoError(t, err)

	if diff := cmp.Diff(&expected, resp); diff != "" {
		t.Errorf("unerwartete Antwort (-want +got):\n%s", diff)
	}
}

func TestClientStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "model is required"})
	})

	_, err := client.Detect(context.Background(), &DetectRequest{})
	require.Error(t, err)

	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "model is required", statusErr.ErrorMessage)
}

func TestClientStatusErrorPlainBody(t *testing.T) {
	// Nicht-JSON Fehlerantworten landen als Message im StatusError
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("kaputt"))
	})

	_, err := client.List(context.Background())
	require.Error(t, err)

	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "kaputt", statusErr.ErrorMessage)
}

func TestClientVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"version": "1.2.3"})
	})

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v)
}

func TestClientClearCache(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.ClearCache(context.Background()))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/cache", gotPath)
}

func TestClientFromEnvironment(t *testing.T) {
	t.Setenv("DINO_HOST", "1.2.3.4:5678")

	client, err := ClientFromEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4:5678", client.base.Host)
}

func TestStatusErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      StatusError
		expected string
	}{
		{
			name:     "Status und Message",
			err:      StatusError{Status: "400 Bad Request", ErrorMessage: "model is required"},
			expected: "400 Bad Request: model is required",
		},
		{
			name:     "nur Status",
			err:      StatusError{Status: "500 Internal Server Error"},
			expected: "500 Internal Server Error",
		},
		{
			name:     "nur Message",
			err:      StatusError{ErrorMessage: "kaputt"},
			expected: "kaputt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestRectDimensions(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 110, Y1: 70}
	assert.Equal(t, float32(100), r.Width())
	assert.Equal(t, float32(50), r.Height())
}
