// Package testing holds helpers shared by larder's package tests.
package testing

import (
	"database/sql"
	"testing"

	"github.com/teranos/larder/db"
)

// CreateTestDB creates an in-memory SQLite database with the larder schema
// applied. Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(db.MemoryPath, nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}
