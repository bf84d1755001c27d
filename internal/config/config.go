package config

type Config interface {
	EnvConfig
	AuthConfig
	CorsConfig
	DBConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type DBConfig interface {
	GetDatabaseURL() string
}

type mainConfig struct {
	EnvVars
	Auth
	Cors
	DB
}

func New() Config {
	return mainConfig{}
}
