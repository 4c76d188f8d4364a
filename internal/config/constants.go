package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultMaxListLimit is the largest page size a list query may request
	DefaultMaxListLimit = 500
)
