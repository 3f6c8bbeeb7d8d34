package pull

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver (pgx)
	_ "github.com/mattn/go-sqlite3"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/sqlls/sqlls"
)

// TestPostgreSQLExtractorIntegration runs ExtractSchemas against a real
// PostgreSQL container, the same surface catalog.live drives in production.
func TestPostgreSQLExtractorIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := t.Context()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	assert.NoError(t, err)

	defer func() {
		assert.NoError(t, postgresContainer.Terminate(ctx))
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	assert.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	assert.NoError(t, err)

	defer db.Close()

	err = setupPostgreSQLTestData(db)
	assert.NoError(t, err)

	extractor := NewPostgreSQLExtractor()

	t.Run("ExtractSchemas", func(t *testing.T) {
		schemas, err := extractor.ExtractSchemas(ctx, db, ExtractConfig{
			IncludeViews:   true,
			IncludeIndexes: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, len(schemas))
		assert.Equal(t, "public", schemas[0].Name)
		assert.True(t, len(schemas[0].Tables) >= 2) // users and posts

		var users *sqlls.TableInfo

		for _, table := range schemas[0].Tables {
			if table.Name == "users" {
				users = table
			}
		}

		assert.NotZero(t, users)
		assert.Contains(t, columnNames(users.Columns), "id")
		assert.Contains(t, columnNames(users.Columns), "email")
	})

	t.Run("ExtractSchemasWithTableFilter", func(t *testing.T) {
		schemas, err := extractor.ExtractSchemas(ctx, db, ExtractConfig{
			IncludeTables: []string{"users"},
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, len(schemas))

		for _, table := range schemas[0].Tables {
			assert.Equal(t, "users", table.Name)
		}
	})
}

// TestMySQLExtractorIntegration runs ExtractSchemas against a real MySQL container.
func TestMySQLExtractorIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := t.Context()

	mysqlContainer, err := mysql.Run(ctx,
		"mysql:8.4",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("testuser"),
		mysql.WithPassword("testpass"),
	)
	assert.NoError(t, err)

	defer func() {
		assert.NoError(t, mysqlContainer.Terminate(ctx))
	}()

	connStr, err := mysqlContainer.ConnectionString(ctx)
	assert.NoError(t, err)

	db, err := sql.Open("mysql", connStr)
	assert.NoError(t, err)

	defer db.Close()

	err = setupMySQLTestData(db)
	assert.NoError(t, err)

	extractor := NewMySQLExtractor()

	schemas, err := extractor.ExtractSchemas(ctx, db, ExtractConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(schemas))
	assert.True(t, len(schemas[0].Tables) >= 2) // users and posts
}

// TestSQLiteExtractorIntegration runs ExtractSchemas against a real SQLite file.
func TestSQLiteExtractorIntegration(t *testing.T) {
	tempDir := t.TempDir()

	dbPath := filepath.Join(tempDir, "test.db")

	db, err := sql.Open("sqlite3", dbPath)
	assert.NoError(t, err)

	defer db.Close()

	err = setupSQLiteTestData(db)
	assert.NoError(t, err)

	extractor := NewSQLiteExtractor()

	schemas, err := extractor.ExtractSchemas(t.Context(), db, ExtractConfig{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(schemas))
	assert.Equal(t, "global", schemas[0].Name) // SQLite has no schema concept
	assert.True(t, len(schemas[0].Tables) >= 2)
}

func columnNames(cols map[string]*sqlls.ColumnInfo) []string {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}

	return names
}

// Helper functions to set up test data

func setupPostgreSQLTestData(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id),
			title VARCHAR(200) NOT NULL,
			content TEXT,
			published BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published)`,
		`INSERT INTO users (email, name) VALUES
			('john@example.com', 'John Doe'),
			('jane@example.com', 'Jane Smith')
			ON CONFLICT (email) DO NOTHING`,
		`INSERT INTO posts (user_id, title, content, published) VALUES
			(1, 'First Post', 'This is the first post', true),
			(2, 'Second Post', 'This is the second post', false)
			ON CONFLICT DO NOTHING`,
		`CREATE VIEW active_users AS
			SELECT id, email, name FROM users WHERE created_at > NOW() - INTERVAL '30 days'`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", query, err)
		}
	}

	return nil
}

func setupMySQLTestData(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(100) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT,
			title VARCHAR(200) NOT NULL,
			content TEXT,
			published BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX idx_users_email ON users(email)`,
		`CREATE INDEX idx_posts_user_id ON posts(user_id)`,
		`INSERT IGNORE INTO users (email, name) VALUES
			('john@example.com', 'John Doe'),
			('jane@example.com', 'Jane Smith')`,
		`INSERT IGNORE INTO posts (user_id, title, content, published) VALUES
			(1, 'First Post', 'This is the first post', true),
			(2, 'Second Post', 'This is the second post', false)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", query, err)
		}
	}

	return nil
}

func setupSQLiteTestData(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(id),
			title TEXT NOT NULL,
			content TEXT,
			published BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`INSERT OR IGNORE INTO users (email, name) VALUES
			('john@example.com', 'John Doe'),
			('jane@example.com', 'Jane Smith')`,
		`INSERT OR IGNORE INTO posts (user_id, title, content, published) VALUES
			(1, 'First Post', 'This is the first post', 1),
			(2, 'Second Post', 'This is the second post', 0)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %q: %w", query, err)
		}
	}

	return nil
}
