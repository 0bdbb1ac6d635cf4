package config

// EnvPrefix is passed to envconfig; every variable also carries its full
// name in the struct tag so the prefix only matters for error output.
const EnvPrefix = "tillpoint"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "TILLPOINT_DB_DSN"
	EnvDBPath = "TILLPOINT_DB_PATH"
)
