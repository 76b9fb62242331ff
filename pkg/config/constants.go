package config

const (
	// EnvPrefix is empty because every variable already carries the INVENX_ prefix.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	EnvDBDSN  = "INVENX_DB_DSN"
	EnvDBPath = "INVENX_DB_PATH"
)
