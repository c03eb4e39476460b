package config

type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" default:"24"`
	MigrationsDir string `env:"MIGRATIONS_DIR" default:"migrations"`
	Env           string `env:"APP_ENV" default:"dev"`
}
