package main

// Exit codes returned by axs commands.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (bad config file, collection not found)
	ExitDataError     = 3 // Data error (malformed snapshot, Ollama not available)
	ExitModelNotFound = 4 // Embedding model not found
)
