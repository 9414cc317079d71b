package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "WASOKO"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "WASOKO_DB_DSN"
	EnvDBHost = "WASOKO_DB_HOST"
	EnvDBUser = "WASOKO_DB_USER"
	EnvDBName = "WASOKO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
