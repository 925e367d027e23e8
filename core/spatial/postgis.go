package spatial

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Config holds connection parameters for the spatial-relational backend.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"5432"`
	// User is the database user.
	User string `mapstructure:"user" default:"postgres"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:""`
}

// Enabled reports whether a spatial backend is configured at all.
func (c Config) Enabled() bool {
	return c.Name != ""
}

func (c Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// TableDropper removes geometry tables from the spatial backend. The map
// server does not always cascade this when a store is deleted.
type TableDropper interface {
	DropGeometryTable(ctx context.Context, table string) error
}

// Backend is the pgx-based implementation of TableDropper.
type Backend struct {
	cfg    Config
	logger *zap.Logger

	// connect is swappable for tests.
	connect func(ctx context.Context, dsn string) (conn, error)
}

type conn interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Close(ctx context.Context) error
}

type pgxConn struct {
	*pgx.Conn
}

func (c pgxConn) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := c.Conn.Exec(ctx, sql, args...)
	return err
}

// NewBackend creates a spatial backend handle from the configuration.
func NewBackend(cfg Config, logger *zap.Logger) *Backend {
	return &Backend{
		cfg:    cfg,
		logger: logger,
		connect: func(ctx context.Context, dsn string) (conn, error) {
			c, err := pgx.Connect(ctx, dsn)
			if err != nil {
				return nil, err
			}
			return pgxConn{c}, nil
		},
	}
}

// DropGeometryTable drops the geometry table behind a deleted vector
// resource. Errors are logged and returned; the caller decides whether they
// are fatal (cascade deletion treats them as soft).
func (b *Backend) DropGeometryTable(ctx context.Context, table string) error {
	c, err := b.connect(ctx, b.cfg.dsn())
	if err != nil {
		b.logger.Error("Failed to connect to spatial backend", zap.Error(err))
		return err
	}
	defer c.Close(ctx)

	if err := c.Exec(ctx, "SELECT DropGeometryTable($1::varchar)", table); err != nil {
		b.logger.Error("Failed to drop geometry table",
			zap.String("table", table), zap.Error(err))
		return err
	}

	b.logger.Info("Dropped geometry table", zap.String("table", table))
	return nil
}
