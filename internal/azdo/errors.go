package azdo

import (
	"fmt"
	"strings"
)

// maxErrorBody caps how much of a failed response body is kept on the error.
const maxErrorBody = 512

// ConfigurationError reports required settings that are missing or empty.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required Azure DevOps settings: %s", strings.Join(e.Missing, ", "))
}

// RemoteRequestError is returned when Azure DevOps answers with a non-2xx status.
type RemoteRequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *RemoteRequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// MalformedResponseError is returned when a response lacks an expected field
// or carries it with the wrong JSON type.
type MalformedResponseError struct {
	Path   string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Path == "" {
		return "malformed response: " + e.Reason
	}
	return fmt.Sprintf("malformed response at %s: %s", e.Path, e.Reason)
}

func newRemoteRequestError(method, url string, status int, body []byte) *RemoteRequestError {
	excerpt := strings.TrimSpace(string(body))
	if len(excerpt) > maxErrorBody {
		excerpt = excerpt[:maxErrorBody] + "..."
	}
	return &RemoteRequestError{Method: method, URL: url, StatusCode: status, Body: excerpt}
}
