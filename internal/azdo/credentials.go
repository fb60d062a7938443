package azdo

import (
	"encoding/base64"
	"strings"
)

// Credentials identifies the Azure DevOps project every operation runs against.
// Build it with NewCredentials; the zero value is invalid.
type Credentials struct {
	Organization string
	Project      string
	Token        string
}

// NewCredentials validates the three settings and returns them trimmed.
// A *ConfigurationError lists every empty field.
func NewCredentials(organization, project, token string) (Credentials, error) {
	creds := Credentials{
		Organization: strings.TrimSpace(organization),
		Project:      strings.TrimSpace(project),
		Token:        strings.TrimSpace(token),
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Validate reports which settings are empty.
func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Organization) == "" {
		missing = append(missing, "organization")
	}
	if strings.TrimSpace(c.Project) == "" {
		missing = append(missing, "project")
	}
	if strings.TrimSpace(c.Token) == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// basicAuthorization returns the header value for a PAT: empty user, token as password.
func (c Credentials) basicAuthorization() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(":"+c.Token))
}
