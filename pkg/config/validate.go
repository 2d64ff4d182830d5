package config

// AuthError reports a fatal LLM authentication configuration error. Exactly
// one of two strategies must be fully configured: LLM_MODEL_NAME together
// with LLM_MODEL_API_KEY, or AGENTS_LLM_CONFIG_FILE together with
// AGENTS_LLM_CONFIG_FILE_REF_KEY.
//
// The validator itself never terminates the process; the top-level entry
// point is expected to log the diagnostic and exit with status 1.
type AuthError struct {
	// BothSet is true when the direct strategy is fully configured and the
	// config-file strategy is also (fully or partially) present. False
	// means neither strategy is fully configured.
	BothSet bool
}

func (e *AuthError) Error() string {
	if e.BothSet {
		return "provide either LLM_MODEL_NAME and LLM_MODEL_API_KEY together, " +
			"or AGENTS_LLM_CONFIG_FILE and AGENTS_LLM_CONFIG_FILE_REF_KEY together, not both"
	}
	return "either LLM_MODEL_NAME and LLM_MODEL_API_KEY must be set together, " +
		"or AGENTS_LLM_CONFIG_FILE and AGENTS_LLM_CONFIG_FILE_REF_KEY must be set together; " +
		"use --llm-model and --llm-model-api-key on the hercules command"
}

// validateLLMAuth enforces the exclusive-or constraint between the two
// authentication strategies. It runs after source merging and before
// defaults finalization, so overrides are visible but unset optional keys
// are still absent. Partial specification of a strategy does not satisfy it
// and is not a distinct error.
func validateLLMAuth(values map[string]string) error {
	modelName := values[KeyLLMModelName]
	modelAPIKey := values[KeyLLMModelAPIKey]
	configFile := values[KeyAgentsLLMConfigFile]
	configFileRefKey := values[KeyAgentsLLMConfigFileRefKey]

	directSet := modelName != "" && modelAPIKey != ""

	if directSet && (configFile != "" || configFileRefKey != "") {
		return &AuthError{BothSet: true}
	}
	if !directSet && (configFile == "" || configFileRefKey == "") {
		return &AuthError{}
	}
	return nil
}
