package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/titooo7/teamarr-sub001/pkg/models"

	_ "github.com/lib/pq"
)

// Client reads team aliases from Postgres. The team_aliases table is
// CRUD-managed by the settings API; this service only reads it.
type Client struct {
	db *sql.DB
}

// NewClient opens a Postgres connection pool for the alias store
func NewClient(dsn string) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

// ListAliases retrieves all aliases configured for one league
func (c *Client) ListAliases(ctx context.Context, league string) ([]models.TeamAlias, error) {
	query := `
		SELECT alias, league, provider, team_id, team_name
		FROM team_aliases
		WHERE league = $1
		ORDER BY alias ASC
	`

	rows, err := c.db.QueryContext(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()

	var aliases []models.TeamAlias
	for rows.Next() {
		var a models.TeamAlias
		if err := rows.Scan(&a.Alias, &a.League, &a.Provider, &a.TeamID, &a.TeamName); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		aliases = append(aliases, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aliases: %w", err)
	}

	return aliases, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping checks database connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
