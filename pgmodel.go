// Package pgmodel provides a programmatic API for resolving a PostgreSQL
// schema into a normalized, cross-referenced model for code and query
// generation.
package pgmodel

import (
	"context"
	"fmt"

	"github.com/pgmodel/pgmodel/cmd/util"
	"github.com/pgmodel/pgmodel/internal/catalog"
	"github.com/pgmodel/pgmodel/internal/model"
)

// DatabaseConfig holds connection details for a PostgreSQL database.
type DatabaseConfig struct {
	Host     string // Database server host
	Port     int    // Database server port
	Database string // Database name
	User     string // Database user
	Password string // Database password (optional)
	Schema   string // Target schema name (default: "public")
}

// Build connects to the configured database, reads a raw catalog snapshot,
// and resolves it into the schema model for the configured schema.
func Build(ctx context.Context, config DatabaseConfig) (*Model, error) {
	if config.Schema == "" {
		config.Schema = "public"
	}

	conn, err := util.Connect(ctx, &util.ConnectionConfig{
		Host:            config.Host,
		Port:            config.Port,
		Database:        config.Database,
		User:            config.User,
		Password:        config.Password,
		SSLMode:         "prefer",
		ApplicationName: "pgmodel",
	})
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	snapshot, err := catalog.NewIntrospector(conn).Introspect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to introspect catalogs: %w", err)
	}

	return model.Resolve(snapshot, config.Schema)
}

// Resolve resolves an already-materialized catalog snapshot into the
// schema model for the given schema. It is a pure function of its input:
// callers that capture snapshots out of band get the same model the
// database-backed path produces.
func Resolve(snapshot *Snapshot, schema string) (*Model, error) {
	return model.Resolve(snapshot, schema)
}
