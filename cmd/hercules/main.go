// Hercules resolves and provisions the run-time configuration for an
// automated test-execution agent.
//
// Configuration is assembled from command-line flags, environment variables,
// an optional configuration file, and built-in defaults, then validated and
// used to provision the workspace directory layout for a run.
//
// Usage:
//
//	# Resolve configuration from the environment and defaults
//	hercules run --llm-model gpt-4o --llm-model-api-key $KEY
//
//	# Resolve from a configuration file
//	hercules run --config agent.json
//
//	# Show version information
//	hercules version
package main

func main() {
	Execute()
}
