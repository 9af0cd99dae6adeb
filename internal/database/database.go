package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"

	"paratest/internal/config"
	"paratest/internal/logging"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

// DatabaseManager provisions one test database per worker
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// DSN builds the server connection string from DB_* variables of the
// environment or the project's .env file.
func (dm *DatabaseManager) DSN() string {
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = fmt.Sprintf("%s:%s", dm.getenv("DB_HOST", "127.0.0.1"), dm.getenv("DB_PORT", "3306"))
	c.User = dm.getenv("DB_USERNAME", "root")
	c.Passwd = dm.getenv("DB_PASSWORD", "")
	return c.FormatDSN()
}

func (dm *DatabaseManager) getenv(key, fallback string) string {
	if v := dm.config.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// CheckAndCreateDatabases makes sure every worker database exists, creating
// the missing ones. It returns the names of the databases it created.
func (dm *DatabaseManager) CheckAndCreateDatabases(ctx context.Context, workerCount int) ([]string, error) {
	db, err := sql.Open("mysql", dm.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	var created []string
	for i := 1; i <= workerCount; i++ {
		dbName := dm.config.GetDatabaseName(i)

		exists, err := databaseExists(ctx, db, dbName)
		if err != nil {
			return nil, fmt.Errorf("failed to check database %s: %w", dbName, err)
		}
		if exists {
			continue
		}

		if err := createDatabase(ctx, db, dbName); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", dbName, err)
		}
		logging.Info("database", "created database %s", dbName)
		created = append(created, dbName)
	}

	return created, nil
}

func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

func createDatabase(ctx context.Context, db *sql.DB, dbName string) error {
	// Identifiers cannot be bound as parameters
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %s", dbName)
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName))
	return err
}

// isValidDatabaseName accepts unquoted MySQL identifiers only
func isValidDatabaseName(name string) bool {
	return validName.MatchString(name)
}
