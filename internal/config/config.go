package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roivaz/azure-devops-mcp/internal/azdo"
	"github.com/roivaz/azure-devops-mcp/internal/logging"
)

const (
	AuthSchemeBasic  = "basic"
	AuthSchemeBearer = "bearer"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Init wires environment, the optional manifests/config.env file and the
// root command's persistent flags into viper. Flag names use dashes where
// keys use underscores, so --azure-devops-org sets azure_devops_org.
func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load("manifests/config.env")
	if root != nil {
		root.PersistentFlags().VisitAll(func(f *pflag.Flag) {
			_ = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
	}
	setDefaults()
}

// AddFlags registers the flags shared by every command.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("azure-devops-org", "", "Azure DevOps organization (AZURE_DEVOPS_ORG)")
	fs.String("azure-devops-project", "", "Azure DevOps project (AZURE_DEVOPS_PROJECT)")
	fs.String("azure-devops-base-url", "", "Azure DevOps base URL (AZURE_DEVOPS_BASE_URL)")
	fs.String("azure-devops-api-version", "", "REST API version (AZURE_DEVOPS_API_VERSION)")
	fs.String("azure-devops-auth-scheme", "", "Token scheme: basic or bearer (AZURE_DEVOPS_AUTH_SCHEME)")
	fs.Duration("http-timeout", 0, "Timeout for each Azure DevOps request (HTTP_TIMEOUT)")
	fs.Int("fanout-limit", 0, "Max concurrent per-repository requests, 0 for unbounded (FANOUT_LIMIT)")
	fs.String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
}

func setDefaults() {
	viper.SetDefault(KeyBaseURL, azdo.DefaultBaseURL)
	viper.SetDefault(KeyAPIVersion, azdo.DefaultAPIVersion)
	viper.SetDefault(KeyAuthScheme, AuthSchemeBasic)
	viper.SetDefault(KeyHTTPTimeout, azdo.DefaultTimeout)
	viper.SetDefault(KeyFanoutLimit, 0)
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyTransport, TransportStdio)
	viper.SetDefault(KeyHost, "127.0.0.1")
	viper.SetDefault(KeyPort, 8000)
}

func Organization() string        { return viper.GetString(KeyOrganization) }
func Project() string             { return viper.GetString(KeyProject) }
func PersonalAccessToken() string { return viper.GetString(KeyToken) }
func BaseURL() string             { return viper.GetString(KeyBaseURL) }
func APIVersion() string          { return viper.GetString(KeyAPIVersion) }
func AuthScheme() string          { return strings.ToLower(viper.GetString(KeyAuthScheme)) }
func HTTPTimeout() time.Duration  { return viper.GetDuration(KeyHTTPTimeout) }
func FanoutLimit() int            { return viper.GetInt(KeyFanoutLimit) }
func LogLevel() string            { return viper.GetString(KeyLogLevel) }
func Transport() string           { return strings.ToLower(viper.GetString(KeyTransport)) }
func Host() string                { return viper.GetString(KeyHost) }
func Port() int                   { return viper.GetInt(KeyPort) }

// Credentials reads organization, project and token. The token is only ever
// taken from the environment or config.env, never from a flag.
func Credentials() (azdo.Credentials, error) {
	creds, err := azdo.NewCredentials(Organization(), Project(), PersonalAccessToken())
	if err != nil {
		return azdo.Credentials{}, fmt.Errorf("%w (set AZURE_DEVOPS_ORG, AZURE_DEVOPS_PROJECT and AZURE_DEVOPS_PAT)", err)
	}
	return creds, nil
}

// NewAzureDevOpsClient builds the shared client from the current settings.
func NewAzureDevOpsClient(log logging.Logger) (*azdo.Client, error) {
	creds, err := Credentials()
	if err != nil {
		return nil, err
	}

	opts := []azdo.Option{
		azdo.WithBaseURL(BaseURL()),
		azdo.WithAPIVersion(APIVersion()),
		azdo.WithTimeout(HTTPTimeout()),
		azdo.WithFanoutLimit(FanoutLimit()),
		azdo.WithLogger(log),
	}
	switch AuthScheme() {
	case AuthSchemeBasic, "":
	case AuthSchemeBearer:
		opts = append(opts, azdo.WithBearerAuth())
	default:
		return nil, fmt.Errorf("invalid %s %q (must be %s or %s)", KeyAuthScheme, AuthScheme(), AuthSchemeBasic, AuthSchemeBearer)
	}
	return azdo.NewClient(creds, opts...)
}
