package config

import (
	"io"

	"github.com/spf13/pflag"
)

// LookupFunc looks up one environment variable. The default implementation
// is os.LookupEnv; tests inject their own to avoid touching the process
// environment.
type LookupFunc func(key string) (string, bool)

// parseArguments extracts the recognized command-line flags into a sparse
// override mapping keyed by canonical configuration key. Unknown flags and
// positional arguments are tolerated, not errors: the config layer shares
// the command line with the host CLI.
func parseArguments(args []string) map[string]string {
	fs := pflag.NewFlagSet("hercules-config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	inputFile := fs.String("input-file", "", "path to the input feature file")
	outputPath := fs.String("output-path", "", "path to the output directory")
	testDataPath := fs.String("test-data-path", "", "path to the test data directory")
	projectBase := fs.String("project-base", "", "path to the project base directory")
	llmModel := fs.String("llm-model", "", "name of the LLM model")
	llmModelAPIKey := fs.String("llm-model-api-key", "", "API key for the LLM model")

	// A parse error here means malformed input for one of our own flags;
	// the original behavior is to take what parsed and move on.
	_ = fs.Parse(args)

	overrides := make(map[string]string)
	if *inputFile != "" {
		overrides[KeyInputGherkinFilePath] = *inputFile
	}
	if *outputPath != "" {
		overrides[KeyJUnitXMLBasePath] = *outputPath
	}
	if *testDataPath != "" {
		overrides[KeyTestDataPath] = *testDataPath
	}
	if *projectBase != "" {
		overrides[KeyProjectSourceRoot] = *projectBase
	}
	if *llmModel != "" {
		overrides[KeyLLMModelName] = *llmModel
	}
	if *llmModelAPIKey != "" {
		overrides[KeyLLMModelAPIKey] = *llmModelAPIKey
	}
	return overrides
}

// mergeEnvironment overwrites values with every allow-listed variable
// present in the environment. Last writer wins; no type coercion happens at
// this stage.
func mergeEnvironment(values map[string]string, lookup LookupFunc) {
	for _, key := range envAllowList {
		if v, ok := lookup(key); ok {
			values[key] = v
		}
	}
}

// mergeOverrides applies a sparse override mapping on top of values. It runs
// after mergeEnvironment so command-line flags win over directly-set
// environment variables for the keys both can supply.
func mergeOverrides(values, overrides map[string]string) {
	for key, v := range overrides {
		values[key] = v
	}
}
