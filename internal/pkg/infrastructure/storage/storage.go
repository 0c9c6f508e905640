package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	host     string
	user     string
	password string
	port     string
	dbname   string
	sslmode  string
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

func NewConfig(host, user, password, port, dbname, sslmode string) Config {
	return Config{
		host:     host,
		user:     user,
		password: password,
		port:     port,
		dbname:   dbname,
		sslmode:  sslmode,
	}
}

func NewPool(ctx context.Context, config Config) (*pgxpool.Pool, error) {
	p, err := pgxpool.New(ctx, config.ConnStr())
	if err != nil {
		return nil, err
	}

	err = p.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return p, nil
}

var (
	ErrNoRows          = errors.New("no rows in result set")
	ErrQueryRow        = errors.New("could not execute query")
	ErrStoreFailed     = errors.New("could not store data")
	ErrNoID            = errors.New("data contains no id")
	ErrAlreadyExist    = errors.New("already exists")
	ErrYAMLImmutable   = errors.New("automation yaml is immutable once approved")
	ErrNotDraft        = errors.New("suggestion is not in draft status")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Storage struct {
	pool *pgxpool.Pool
}

func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func New(ctx context.Context, config Config) (*Storage, error) {
	pool, err := NewPool(ctx, config)
	if err != nil {
		return nil, err
	}

	return &Storage{pool: pool}, nil
}

// migrations are applied in order at startup. Never edit an entry in place,
// append a new one.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS patterns (
		pattern_id		TEXT 	NOT NULL,
		pattern_type	TEXT 	NOT NULL,
		device_id		TEXT 	NULL,
		device_pair		TEXT[]	NULL,
		sequence		TEXT[]	NULL,
		confidence		NUMERIC	NOT NULL,
		occurrences		INTEGER	NOT NULL,
		metadata		JSONB	NULL,
		suggested		BOOLEAN	NOT NULL DEFAULT FALSE,
		first_seen		timestamp with time zone NOT NULL,
		last_seen		timestamp with time zone NOT NULL,
		created_on		timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
		modified_on		timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT pkey_patterns PRIMARY KEY (pattern_id)
	);`,

	`CREATE TABLE IF NOT EXISTS suggestions (
		suggestion_id		TEXT	NOT NULL,
		pattern_id			TEXT	NULL,
		status				TEXT	NOT NULL DEFAULT 'draft',
		description			TEXT	NOT NULL,
		device_capabilities	JSONB	NULL,
		refinement_count	INTEGER	NOT NULL DEFAULT 0,
		automation_yaml		TEXT	NULL,
		category			TEXT	NOT NULL,
		priority			TEXT	NOT NULL,
		confidence			NUMERIC	NOT NULL,
		external_id			TEXT	NULL,
		created_on			timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
		modified_on			timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
		approved_on			timestamp with time zone NULL,
		deployed_on			timestamp with time zone NULL,
		CONSTRAINT pkey_suggestions PRIMARY KEY (suggestion_id)
	);`,

	`CREATE INDEX IF NOT EXISTS idx_patterns_type ON patterns (pattern_type);
	 CREATE INDEX IF NOT EXISTS idx_patterns_suggested ON patterns (suggested, confidence);
	 CREATE INDEX IF NOT EXISTS idx_suggestions_status ON suggestions (status);`,

	`CREATE TABLE IF NOT EXISTS cleanup_queue (
		automation_id	TEXT	NOT NULL,
		reason			TEXT	NULL,
		created_on		timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT pkey_cleanup_queue PRIMARY KEY (automation_id)
	);`,
}

func (s *Storage) Initialize(ctx context.Context) error {
	log := logging.GetFromContext(ctx)

	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version		INTEGER	NOT NULL,
			applied_on	timestamp with time zone NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT pkey_schema_migrations PRIMARY KEY (version)
		);
	`)
	if err != nil {
		return err
	}

	var current int
	err = s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current)
	if err != nil {
		return err
	}

	for v := current; v < len(migrations); v++ {
		_, err = s.pool.Exec(ctx, migrations[v])
		if err != nil {
			return fmt.Errorf("migration %d failed: %w", v+1, err)
		}

		_, err = s.pool.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", v+1)
		if err != nil {
			return err
		}

		log.Debug("applied migration", "version", v+1)
	}

	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close() {
	s.pool.Close()
}
