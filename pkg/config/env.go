package config

const EnvPrefix = "SALESCOPE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "SALESCOPE_APP_ENV"
	EnvPort   = "SALESCOPE_APP_PORT"

	EnvDBDSN  = "SALESCOPE_DB_DSN"
	EnvDBHost = "SALESCOPE_DB_HOST"
	EnvDBUser = "SALESCOPE_DB_USER"
	EnvDBName = "SALESCOPE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
