// ABOUTME: SQLite-based storage implementation for persistent settings
// ABOUTME: Provides a file-based key/value store that survives application restarts

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"mealie-bridge-api/core/interfaces"
)

// Client implements the Storage interface using SQLite
type Client struct {
	db       *sql.DB
	filePath string
}

// NewSQLiteStorage creates a new SQLite storage client
func NewSQLiteStorage(filePath string) (*Client, error) {
	if filePath == "" {
		filePath = "bridge.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	client := &Client{
		db:       db,
		filePath: filePath,
	}

	if err := client.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return client, nil
}

// initSchema creates the settings table if it doesn't exist
func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);
	`

	_, err := c.db.Exec(query)
	return err
}

// Get retrieves a value from storage
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	var value []byte
	query := "SELECT value FROM settings WHERE key = ?"
	err := c.db.QueryRowContext(ctx, query, key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, interfaces.ErrKeyNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get value: %w", err)
	}

	return value, nil
}

// Set stores a value
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	query := `
		INSERT OR REPLACE INTO settings (key, value)
		VALUES (?, ?)
	`

	_, err := c.db.ExecContext(ctx, query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

// Delete removes a value from storage
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	query := "DELETE FROM settings WHERE key = ?"
	_, err := c.db.ExecContext(ctx, query, key)

	if err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}

	return nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
