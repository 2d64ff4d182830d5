package config

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// envFileOnce guards the process-wide .env load. The file carries
// environment variables, so loading it twice would be redundant and loading
// it from a second Manager construction must not re-override values.
var envFileOnce sync.Once

// loadEnvFile loads the external environment-variable source file at most
// once per process. The load is skipped entirely when the environment flags
// a test context (IS_TEST_ENV=true): tests control the environment
// themselves through injected lookups.
//
// File values override already-set process variables, matching the original
// bootstrap semantics. A missing file is not an error.
func loadEnvFile(path string, lookup LookupFunc) {
	if v, ok := lookup(KeyIsTestEnv); ok && isTrue(v) {
		return
	}
	envFileOnce.Do(func() {
		if err := godotenv.Overload(path); err != nil {
			return
		}
		slog.Default().With("component", "config").Debug("loaded environment file", "path", path)
	})
}

// isTrue reports whether a stored configuration string means boolean true:
// the literal "true", compared case-insensitively after trimming. Every
// other value, including the empty string, is false.
func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}
