package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	DBName   string `yaml:"database_name" env:"POSTGRES_DB_NAME" env-default:"registration_bot"`
	User     string `yaml:"username" env:"POSTGRES_USER" env-default:"postgres"`
	Pass     string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"postgres"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" env-default:"disable"`
	MaxConns int    `yaml:"max_connections" env:"POSTGRES_MAX_CONNS" env-default:"10"`
}

func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Pass,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func NewConnPool(ctx context.Context, config *Config) (*pgxpool.Pool, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(config.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return pool, nil
}
