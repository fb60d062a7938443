package azdo

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name        string
		org         string
		project     string
		token       string
		wantMissing []string
	}{
		{"all set", "org", "proj", "pat", nil},
		{"missing organization", "", "proj", "pat", []string{"organization"}},
		{"missing project", "org", "", "pat", []string{"project"}},
		{"missing token", "org", "proj", "", []string{"token"}},
		{"whitespace token", "org", "proj", "   ", []string{"token"}},
		{"all missing", "", "", "", []string{"organization", "project", "token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := NewCredentials(tt.org, tt.project, tt.token)
			if tt.wantMissing == nil {
				require.NoError(t, err)
				require.Equal(t, Credentials{Organization: tt.org, Project: tt.project, Token: tt.token}, creds)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.wantMissing, cfgErr.Missing)
			require.Equal(t, Credentials{}, creds)
		})
	}
}

func TestNewClientRejectsInvalidCredentials(t *testing.T) {
	stub := newStubDevOps(t)
	stub.handle("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, creds := range []Credentials{
		{Project: "p", Token: "t"},
		{Organization: "o", Token: "t"},
		{Organization: "o", Project: "p"},
	} {
		c, err := NewClient(creds, WithBaseURL(stub.server.URL))
		require.Nil(t, c)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	}
	require.Zero(t, stub.callCount("/"))
}

func TestClientSendsFixedHeaders(t *testing.T) {
	stub := newStubDevOps(t)

	var (
		mu      sync.Mutex
		headers []http.Header
	)
	stub.handle("GET "+projectPath("_apis/git/repositories"), func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		headers = append(headers, r.Header.Clone())
		mu.Unlock()
		writeJSON(w, map[string]any{"value": []any{}})
	})

	c := stub.client()
	for i := 0; i < 3; i++ {
		_, err := c.ListRepositories(context.Background())
		require.NoError(t, err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+testToken))
	require.Len(t, headers, 3)
	for _, h := range headers {
		require.Equal(t, want, h.Get("Authorization"))
		require.Equal(t, "application/json", h.Get("Accept"))
	}
}

func TestClientBearerAuth(t *testing.T) {
	stub := newStubDevOps(t)
	got := make(chan string, 1)
	stub.handle("GET "+projectPath("_apis/git/repositories"), func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		writeJSON(w, map[string]any{"value": []any{}})
	})

	_, err := stub.client(WithBearerAuth()).ListRepositories(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer "+testToken, <-got)
}

func TestClientCustomAPIVersion(t *testing.T) {
	stub := newStubDevOps(t)
	got := make(chan string, 1)
	stub.handle("GET "+projectPath("_apis/git/repositories"), func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.Query().Get("api-version")
		writeJSON(w, map[string]any{"value": []any{}})
	})

	_, err := stub.client(WithAPIVersion("7.2-preview")).ListRepositories(context.Background())
	require.NoError(t, err)
	require.Equal(t, "7.2-preview", <-got)
}

func TestEndpointEscapesPathSegments(t *testing.T) {
	creds, err := NewCredentials("my org", "Fabrikam Fiber", "pat")
	require.NoError(t, err)
	c, err := NewClient(creds, WithBaseURL("https://devops.example.com/tfs/"))
	require.NoError(t, err)

	got := c.endpoint("_apis/wit/wiql", nil)
	require.Equal(t, "https://devops.example.com/tfs/my%20org/Fabrikam%20Fiber/_apis/wit/wiql?api-version=7.1", got)
}

func TestClientRemoteErrorCarriesStatus(t *testing.T) {
	stub := newStubDevOps(t)
	stub.handle("GET "+projectPath("_apis/git/repositories"), func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 2*maxErrorBody), http.StatusUnauthorized)
	})

	_, err := stub.client().ListRepositories(context.Background())
	var remoteErr *RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
	require.Equal(t, http.MethodGet, remoteErr.Method)
	require.LessOrEqual(t, len(remoteErr.Body), maxErrorBody+3)
	require.NotContains(t, err.Error(), testToken)
}

func TestClientRejectsNonJSONBody(t *testing.T) {
	stub := newStubDevOps(t)
	stub.handle("GET "+projectPath("_apis/git/repositories"), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>sign in</html>"))
	})

	_, err := stub.client().ListRepositories(context.Background())
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestClientHonoursContextCancellation(t *testing.T) {
	stub := newStubDevOps(t)
	stub.handle("GET "+projectPath("_apis/git/repositories"), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"value": []any{}})
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := stub.client().ListRepositories(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}
