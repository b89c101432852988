package database

import (
	"fmt"

	"github.com/guildhall/mmoawards/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const DB_NAME = "mmoawards"

const LOCAL_CONNECTION_STRING = "user=postgres password=postgres dbname=mmoawards sslmode=disable"

const MAIN_SCHEMA = "mmoawards"
const TESTING_SCHEMA = "mmoawards_test"

func GetSchemaName(isTesting bool) string {
	if isTesting {
		return TESTING_SCHEMA
	}
	return MAIN_SCHEMA
}

func GetConnectionString(host, username, password string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s sslmode=require",
		quoteConnValue(host), quoteConnValue(username), quoteConnValue(password), DB_NAME,
	)
}

// Quote a value for use in a key/value connection string
func quoteConnValue(value string) string {
	escaped := make([]rune, 0, len(value)+2)
	escaped = append(escaped, '\'')
	for _, r := range value {
		if r == '\'' || r == '\\' {
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	escaped = append(escaped, '\'')
	return string(escaped)
}

func NewPostgresDatabase(connectionString string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	err = createDatabaseIfNotExists(db, DB_NAME)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return db, nil
}

func NewPostgresDatabaseFromConfig(conf config.Config) (*sqlx.DB, error) {
	var connectionString string
	switch {
	case conf.DBConnectionString() != "":
		connectionString = conf.DBConnectionString()
	case conf.IsDevelopment() && conf.DBHost() == "":
		connectionString = LOCAL_CONNECTION_STRING
	default:
		connectionString = GetConnectionString(conf.DBHost(), conf.DBUsername(), conf.DBPassword())
	}

	db, err := NewPostgresDatabase(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres database: %w", err)
	}

	return db, nil
}

func createDatabaseIfNotExists(db *sqlx.DB, dbName string) error {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM pg_database WHERE datname = $1", dbName)
	if err != nil {
		return fmt.Errorf("createDB: failed to check if database exists: %w", err)
	}

	if count > 0 {
		return nil
	}

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(dbName)))
	if err != nil {
		return fmt.Errorf("createDB: failed to create database: %w", err)
	}

	return nil
}
