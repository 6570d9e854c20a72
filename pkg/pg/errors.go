package pg

import "errors"

var (
	ErrFailedToParseConfig   = errors.New("failed to parse database config")
	ErrFailedToConnect       = errors.New("failed to open database connection")
	ErrFailedToMigrate       = errors.New("failed to apply database migrations")
	ErrMigrationsPathNotSet  = errors.New("migrations path is not set")
	ErrMigrationsDirNotFound = errors.New("migrations directory not found")
	ErrHealthcheckFailed     = errors.New("database healthcheck failed")
)
