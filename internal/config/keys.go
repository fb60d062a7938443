package config

const (
	KeyOrganization = "azure_devops_org"
	KeyProject      = "azure_devops_project"
	KeyToken        = "azure_devops_pat"
	KeyBaseURL      = "azure_devops_base_url"
	KeyAPIVersion   = "azure_devops_api_version"
	KeyAuthScheme   = "azure_devops_auth_scheme"
	KeyHTTPTimeout  = "http_timeout"
	KeyFanoutLimit  = "fanout_limit"
	KeyLogLevel     = "log_level"
	KeyTransport    = "mcp_transport"
	KeyHost         = "host"
	KeyPort         = "port"
)
