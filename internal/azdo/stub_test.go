package azdo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testOrg     = "contoso"
	testProject = "FabrikamFiber"
	testToken   = "s3cr3t"
)

// stubDevOps is an in-process stand-in for the Azure DevOps REST API that
// counts calls per path.
type stubDevOps struct {
	t      *testing.T
	mux    *http.ServeMux
	server *httptest.Server

	mu    sync.Mutex
	calls map[string]*atomic.Int64
}

func newStubDevOps(t *testing.T) *stubDevOps {
	t.Helper()
	s := &stubDevOps{t: t, mux: http.NewServeMux(), calls: map[string]*atomic.Int64{}}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.counter(r.URL.Path).Add(1)
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubDevOps) counter(path string) *atomic.Int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[path]
	if !ok {
		c = &atomic.Int64{}
		s.calls[path] = c
	}
	return c
}

func (s *stubDevOps) handle(path string, h http.HandlerFunc) {
	s.mux.HandleFunc(path, h)
}

func (s *stubDevOps) callCount(path string) int64 {
	return s.counter(path).Load()
}

func (s *stubDevOps) client(opts ...Option) *Client {
	s.t.Helper()
	creds, err := NewCredentials(testOrg, testProject, testToken)
	require.NoError(s.t, err)
	all := append([]Option{WithBaseURL(s.server.URL)}, opts...)
	c, err := NewClient(creds, all...)
	require.NoError(s.t, err)
	return c
}

func projectPath(rest string) string {
	return "/" + testOrg + "/" + testProject + "/" + rest
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func prRecord(repoID string, id int, title string) map[string]any {
	return map[string]any{
		"repository":    map[string]any{"id": repoID, "name": "repo-" + repoID},
		"pullRequestId": id,
		"title":         title,
		"status":        "active",
		"createdBy":     map[string]any{"displayName": "Jamie Doe", "uniqueName": "jamie@contoso.com"},
		"creationDate":  "2024-03-01T10:15:30.1234567Z",
	}
}
