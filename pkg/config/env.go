package config

// EnvPrefix is handed to envconfig; every field carries an explicit name so it
// only matters for fields without one.
const EnvPrefix = "AGROFIX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv        = "AGROFIX_APP_ENV"
	EnvPort          = "AGROFIX_APP_PORT"
	EnvStorageDriver = "AGROFIX_STORAGE_DRIVER"

	EnvDBDSN        = "AGROFIX_DB_DSN"
	EnvDBHost       = "AGROFIX_DB_HOST"
	EnvDBUser       = "AGROFIX_DB_USER"
	EnvDBName       = "AGROFIX_DB_NAME"
	EnvDBSQLitePath = "AGROFIX_DB_SQLITE_PATH"

	EnvRedisURL = "AGROFIX_REDIS_URL"

	EnvJWTSecret  = "AGROFIX_JWT_SECRET"
	EnvJWTIssuer  = "AGROFIX_JWT_ISSUER"
	EnvJWTExpDays = "AGROFIX_JWT_EXPIRATION_DAYS"

	EnvAdminUsername = "AGROFIX_ADMIN_USERNAME"
	EnvAdminPassword = "AGROFIX_ADMIN_PASSWORD"
	EnvSeedSample    = "AGROFIX_SEED_SAMPLE_DATA"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
