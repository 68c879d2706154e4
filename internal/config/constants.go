package config

// DefaultDatabasePath is the default path of the sqlite catalog database.
const DefaultDatabasePath = "./library.db"
