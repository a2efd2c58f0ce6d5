package config

import "os"

type AppConfig struct {
	DebugMode      bool
	SweeperCfg     *SweeperCfg
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	JwtConfig      *JwtConfig
	HttpConfig     *HttpConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		SweeperCfg:     NewSweeperCfg(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		JwtConfig:      NewJwtConfig(),
		HttpConfig:     NewHttpConfig(),
	}
}
