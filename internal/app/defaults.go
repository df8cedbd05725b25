package app

import "os"

// GetDefaults returns environment-supplied defaults for the store flags.
// Environment variables:
//   - DEADWOOD_MONGO_URI (falling back to MONGODB_URI): store connection string
//   - DEADWOOD_DB: database name
//   - DEADWOOD_LOG_DIR: directory for the append-only log file (stderr only when unset)
func GetDefaults() map[string]string {
	return map[string]string{
		"store_uri": getStoreURI(),
		"store_db":  os.Getenv("DEADWOOD_DB"),
		"log_dir":   os.Getenv("DEADWOOD_LOG_DIR"),
	}
}

// getStoreURI returns the store connection string from the environment,
// checking DEADWOOD_MONGO_URI first and MONGODB_URI as a fallback.
func getStoreURI() string {
	if uri := os.Getenv("DEADWOOD_MONGO_URI"); uri != "" {
		return uri
	}
	return os.Getenv("MONGODB_URI")
}
