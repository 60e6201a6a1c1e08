package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./flashcards.db"

	// DefaultAPIURL is where the client expects the API when nothing is configured
	DefaultAPIURL = "http://localhost:8080"

	// DefaultUserID is the placeholder owner used while no authentication is configured
	DefaultUserID = 1
)
