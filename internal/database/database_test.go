package database

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"

	"paratest/internal/config"
)

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"testing_1", true},
		{"app$test_12", true},
		{"", false},
		{strings.Repeat("a", 65), false},
		{"test`; DROP DATABASE x", false},
		{"test-1", false},
		{"test db", false},
	}

	for _, tt := range tests {
		if got := isValidDatabaseName(tt.name); got != tt.want {
			t.Errorf("isValidDatabaseName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDatabaseManager_DSN(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USERNAME", "")
	t.Setenv("DB_PASSWORD", "")

	cfg := config.New()
	cfg.Env = map[string]string{
		"DB_HOST":     "db.local",
		"DB_USERNAME": "ci",
		"DB_PASSWORD": "secret",
	}

	parsed, err := mysql.ParseDSN(NewDatabaseManager(cfg).DSN())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Addr != "db.local:3306" {
		t.Errorf("expected addr db.local:3306, got %s", parsed.Addr)
	}
	if parsed.User != "ci" || parsed.Passwd != "secret" {
		t.Errorf("unexpected credentials %s/%s", parsed.User, parsed.Passwd)
	}
	if parsed.DBName != "" {
		t.Errorf("expected no database in DSN, got %s", parsed.DBName)
	}
}

func TestDatabaseManager_DSNEnvironmentWins(t *testing.T) {
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("DB_PORT", "3307")

	cfg := config.New()
	cfg.Env = map[string]string{"DB_HOST": "from-dotenv"}

	parsed, err := mysql.ParseDSN(NewDatabaseManager(cfg).DSN())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Addr != "from-env:3307" {
		t.Errorf("expected addr from-env:3307, got %s", parsed.Addr)
	}
}
