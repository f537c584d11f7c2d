package database

import "github.com/caarlos0/env/v6"

type envConfig struct {
	Host     string `env:"DB_HOST"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER,unset" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD,unset"`
	DBName   string `env:"DB_DATABASE" envDefault:"usage"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"UTC"`
}

// Enabled reports whether snapshot persistence is configured at all.
func (c envConfig) Enabled() bool {
	return c.Host != ""
}

func NewConfig() (*envConfig, error) {
	dbConfig := &envConfig{}
	opts := env.Options{}
	if err := env.Parse(dbConfig, opts); err != nil {
		return nil, err
	}
	return dbConfig, nil
}
