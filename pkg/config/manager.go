package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"mercator-hq/hercules/pkg/telemetry"
)

// Option customizes Manager construction. The defaults read the real
// process environment and command line; tests inject their own sources.
type Option func(*options)

type options struct {
	ignoreEnv bool
	lookup    LookupFunc
	args      []string
	overrides map[string]string
	envFile   string
}

func defaultOptions() options {
	return options{
		lookup:  os.LookupEnv,
		args:    os.Args[1:],
		envFile: ".env",
	}
}

// WithoutEnv disables every environment-derived input: the .env load, the
// environment merge, and the command-line flag merge. Only the
// caller-supplied mapping and the built-in defaults apply. Used for
// isolated construction in tests and embedded scenarios.
func WithoutEnv() Option {
	return func(o *options) { o.ignoreEnv = true }
}

// WithEnvLookup replaces the environment variable lookup (default
// os.LookupEnv).
func WithEnvLookup(lookup LookupFunc) Option {
	return func(o *options) { o.lookup = lookup }
}

// WithArgs replaces the command-line arguments the argument source parses
// (default os.Args[1:]).
func WithArgs(args []string) Option {
	return func(o *options) { o.args = args }
}

// WithOverrides supplies the command-line override mapping directly, keyed
// by canonical configuration key. It replaces the argument parse entirely,
// for hosts that already parsed their command line.
func WithOverrides(overrides map[string]string) Option {
	return func(o *options) { o.overrides = overrides }
}

// WithEnvFile replaces the .env file path (default ".env").
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// Manager holds one fully resolved, validated configuration mapping plus the
// current test identifier. The mapping is mutated only through Registry
// patching and SetTestID; accessors are read-only.
//
// An internal RWMutex guards the mapping and the test identifier, so
// accessors and Snapshot are safe to call while a Watcher patches the shared
// instance from its own goroutine.
type Manager struct {
	mu     sync.RWMutex
	values map[string]string
	testID string
	logger *slog.Logger
}

// New constructs a Manager by running the full resolution pipeline over the
// caller-supplied base mapping. See the package documentation for the exact
// sequence. A nil base is treated as empty.
//
// The returned error is *AuthError when LLM authentication is misconfigured;
// construction has no other failure mode.
func New(base map[string]string, opts ...Option) (*Manager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	values := make(map[string]string, len(base))
	for key, v := range base {
		values[key] = v
	}

	if !o.ignoreEnv {
		loadEnvFile(o.envFile, o.lookup)
		mergeEnvironment(values, o.lookup)
		overrides := o.overrides
		if overrides == nil {
			overrides = parseArguments(o.args)
		}
		mergeOverrides(values, overrides)
	}

	if err := validateLLMAuth(values); err != nil {
		return nil, err
	}

	applyDefaults(values)

	return &Manager{
		values: values,
		testID: values[KeyDefaultTestID],
		logger: slog.Default().With("component", "config"),
	}, nil
}

// FromMap constructs a Manager from a caller-supplied mapping. It is New
// under the name the convenience constructors share with FromFile.
func FromMap(base map[string]string, opts ...Option) (*Manager, error) {
	return New(base, opts...)
}

// get returns the value for a recognized key. Finalization guarantees every
// catalog key is present, so a miss is a programming error, not a runtime
// condition.
func (m *Manager) get(key string) string {
	v, ok := m.optional(key)
	if !ok {
		panic(fmt.Sprintf("config: access to undefined key %q", key))
	}
	return v
}

// optional returns the value for a nullable key and whether it was
// configured at all. Absent is distinguishable from an empty string.
func (m *Manager) optional(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// raw returns the value for a key without the presence guarantee; absent
// reads as empty.
func (m *Manager) raw(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

// Mode returns the run mode.
func (m *Manager) Mode() string { return m.get(KeyMode) }

// ProjectSourceRoot returns the resolved project source root.
func (m *Manager) ProjectSourceRoot() string { return m.get(KeyProjectSourceRoot) }

// BrowserType returns the configured browser engine.
func (m *Manager) BrowserType() string { return m.get(KeyBrowserType) }

// Locale returns the browser locale.
func (m *Manager) Locale() string { return m.get(KeyLocale) }

// ColorScheme returns the preferred color scheme.
func (m *Manager) ColorScheme() string { return m.get(KeyColorScheme) }

// RunDevice returns the emulated device class.
func (m *Manager) RunDevice() string { return m.get(KeyRunDevice) }

// Resolution returns the viewport as a "width,height" string.
func (m *Manager) Resolution() string { return m.get(KeyBrowserResolution) }

// HFHome returns the Hugging Face cache directory.
func (m *Manager) HFHome() string { return m.get(KeyHFHome) }

// LoadExtraTools returns the raw extra-tools toggle string.
func (m *Manager) LoadExtraTools() string { return m.get(KeyLoadExtraTools) }

// Headless reports whether the browser should run headless.
func (m *Manager) Headless() bool { return isTrue(m.get(KeyHeadless)) }

// RecordVideo reports whether runs record video.
func (m *Manager) RecordVideo() bool { return isTrue(m.get(KeyRecordVideo)) }

// TakeScreenshots reports whether runs capture screenshots.
func (m *Manager) TakeScreenshots() bool { return isTrue(m.get(KeyTakeScreenshots)) }

// CaptureNetwork reports whether runs capture network traffic.
func (m *Manager) CaptureNetwork() bool { return isTrue(m.get(KeyCaptureNetwork)) }

// DontCloseBrowser reports whether the browser stays open after a run.
func (m *Manager) DontCloseBrowser() bool { return isTrue(m.get(KeyDontCloseBrowser)) }

// TokenVerbose reports whether verbose token accounting is enabled.
func (m *Manager) TokenVerbose() bool { return isTrue(m.get(KeyTokenVerbose)) }

// Timezone returns the configured timezone, if any.
func (m *Manager) Timezone() (string, bool) { return m.optional(KeyTimezone) }

// Geolocation returns the configured geolocation, if any.
func (m *Manager) Geolocation() (string, bool) { return m.optional(KeyGeolocation) }

// GeoProvider returns the configured geolocation provider, if any.
func (m *Manager) GeoProvider() (string, bool) { return m.optional(KeyGeoProvider) }

// GeoAPIKey returns the geolocation provider API key, if any.
func (m *Manager) GeoAPIKey() (string, bool) { return m.optional(KeyGeoAPIKey) }

// CDPConfig returns the Chrome DevTools Protocol endpoint when one is
// configured.
func (m *Manager) CDPConfig() (endpoint string, ok bool) {
	v, ok := m.optional(KeyCDPEndpointURL)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// LLMModelName returns the raw LLM model name (empty when the config-file
// strategy is in use).
func (m *Manager) LLMModelName() string { return m.raw(KeyLLMModelName) }

// LLMModelAPIKey returns the raw LLM model API key.
func (m *Manager) LLMModelAPIKey() string { return m.raw(KeyLLMModelAPIKey) }

// AgentsLLMConfigFile returns the raw agents config file path.
func (m *Manager) AgentsLLMConfigFile() string { return m.raw(KeyAgentsLLMConfigFile) }

// AgentsLLMConfigFileRefKey returns the reference key into the agents
// config file.
func (m *Manager) AgentsLLMConfigFileRefKey() string {
	return m.raw(KeyAgentsLLMConfigFileRefKey)
}

// TestID returns the current test identifier.
func (m *Manager) TestID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.testID
}

// SetTestID changes the test identifier used to namespace the per-test path
// accessors.
func (m *Manager) SetTestID(testID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.testID = testID
	m.values[KeyDefaultTestID] = testID
}

// ResetTestID restores the sentinel test identifier.
func (m *Manager) ResetTestID() { m.SetTestID(DefaultTestID) }

// InputGherkinFilePath returns the input feature file path, creating its
// parent directory when neither the file nor the directory exists yet.
func (m *Manager) InputGherkinFilePath() (string, error) {
	path := m.get(KeyInputGherkinFilePath)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "" {
			if err := m.ensureDir(dir); err != nil {
				return "", err
			}
		}
	}
	return path, nil
}

// TmpGherkinPath returns the staging directory for generated feature files,
// creating it on first access.
func (m *Manager) TmpGherkinPath() (string, error) {
	return m.provisioned(m.get(KeyTmpGherkinPath))
}

// JUnitXMLBasePath returns the output directory, creating it on first
// access.
func (m *Manager) JUnitXMLBasePath() (string, error) {
	return m.provisioned(m.get(KeyJUnitXMLBasePath))
}

// TestDataPath returns the test data directory, creating it on first
// access.
func (m *Manager) TestDataPath() (string, error) {
	return m.provisioned(m.get(KeyTestDataPath))
}

// SourceLogFolderPath returns the per-test log directory, creating it on
// first access.
func (m *Manager) SourceLogFolderPath() (string, error) {
	return m.provisioned(filepath.Join(m.get(KeySourceLogFolderPath), m.TestID()))
}

// ProjectTempPath returns the per-test scratch directory, creating it on
// first access.
func (m *Manager) ProjectTempPath() (string, error) {
	return m.provisioned(filepath.Join(m.get(KeyProjectTempPath), m.TestID()))
}

// ProofPath returns the per-test proof directory. On first access it also
// creates the fixed "screenshots" and "videos" subdirectories.
func (m *Manager) ProofPath() (string, error) {
	path := filepath.Join(m.get(KeyScreenShotPath), m.TestID())
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := m.ensureDir(filepath.Join(path, "screenshots")); err != nil {
			return "", err
		}
		if err := m.ensureDir(filepath.Join(path, "videos")); err != nil {
			return "", err
		}
	}
	return path, nil
}

// provisioned guarantees path exists and returns it. Repeated calls after
// the first are pure reads.
func (m *Manager) provisioned(path string) (string, error) {
	if err := m.ensureDir(path); err != nil {
		return "", err
	}
	return path, nil
}

// ensureDir creates path (and parents) if absent. MkdirAll tolerates the
// directory appearing between the existence check and creation, so
// concurrent accessors cannot race into an error.
func (m *Manager) ensureDir(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", path, err)
	}
	m.logger.Info("created directory", "path", path)
	return nil
}

// Snapshot returns a copy of the resolved mapping. Mutating the copy does
// not affect the Manager.
func (m *Manager) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make(map[string]string, len(m.values))
	for key, v := range m.values {
		snapshot[key] = v
	}
	return snapshot
}

// patch overwrites entries of the resolved mapping without re-validation or
// re-finalization. Only the Registry calls this; see Registry.GetOrCreate.
func (m *Manager) patch(overrides map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range overrides {
		m.values[key] = v
	}
}

// SendConfigTelemetry hands a fixed-shape summary of the resolved
// configuration to the sink as one config-classified event. Fire and
// forget: a nil sink is ignored and the sink contract guarantees Add never
// blocks, so configuration resolution cannot stall on telemetry.
func (m *Manager) SendConfigTelemetry(sink telemetry.Sink) {
	if sink == nil {
		return
	}
	sink.Add(telemetry.Event{
		Type:   telemetry.EventConfig,
		Detail: "General Config",
		Data: map[string]any{
			"MODE":             m.Mode(),
			"HEADLESS":         m.Headless(),
			"RECORD_VIDEO":     m.RecordVideo(),
			"TAKE_SCREENSHOTS": m.TakeScreenshots(),
			"BROWSER_TYPE":     m.BrowserType(),
			"CAPTURE_NETWORK":  m.CaptureNetwork(),
		},
	})
}
