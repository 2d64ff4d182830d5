package config

import "path/filepath"

// Default values for scalar configuration keys.
const (
	DefaultMode                  = "prod"
	DefaultBrowserType           = "chromium"
	DefaultHeadless              = "true"
	DefaultRecordVideo           = "true"
	DefaultTakeScreenshots       = "true"
	DefaultCaptureNetwork        = "true"
	DefaultDontCloseBrowser      = "false"
	DefaultProjectSourceRoot     = "./opt"
	DefaultHFHome                = "./.cache"
	DefaultTokenizersParallelism = "false"
	DefaultTokenVerbose          = "false"
	DefaultBrowserResolution     = "1920,1080"
	DefaultRunDevice             = "desktop"
	DefaultLoadExtraTools        = "false"
	DefaultLocale                = "en-US"
	DefaultColorScheme           = "light"
)

// applyDefaults fills every recognized key still absent after merging and
// validation. It never overwrites a merged value, only fills gaps.
//
// Path defaults derive from the resolved project source root. Nullable keys
// (TIMEZONE, GEOLOCATION, GEO_PROVIDER, GEO_API_KEY, CDP_ENDPOINT_URL) are
// deliberately left absent so accessors can distinguish "not configured"
// from an empty string.
func applyDefaults(values map[string]string) {
	setDefault(values, KeyMode, DefaultMode)
	setDefault(values, KeyDefaultTestID, DefaultTestID)

	root, ok := values[KeyProjectSourceRoot]
	if !ok || root == "" {
		root = DefaultProjectSourceRoot
	}
	values[KeyProjectSourceRoot] = root

	setDefault(values, KeyInputGherkinFilePath, filepath.Join(root, "input", "test.feature"))
	setDefault(values, KeyJUnitXMLBasePath, filepath.Join(root, "output"))
	setDefault(values, KeyTestDataPath, filepath.Join(root, "test_data"))
	setDefault(values, KeyScreenShotPath, filepath.Join(root, "proofs"))
	setDefault(values, KeyProjectTempPath, filepath.Join(root, "temp"))
	setDefault(values, KeySourceLogFolderPath, filepath.Join(root, "log_files"))
	setDefault(values, KeyTmpGherkinPath, filepath.Join(root, "gherkin_files"))

	setDefault(values, KeyHFHome, DefaultHFHome)
	setDefault(values, KeyTokenizersParallelism, DefaultTokenizersParallelism)
	setDefault(values, KeyTokenVerbose, DefaultTokenVerbose)
	setDefault(values, KeyBrowserResolution, DefaultBrowserResolution)
	setDefault(values, KeyRunDevice, DefaultRunDevice)
	setDefault(values, KeyLoadExtraTools, DefaultLoadExtraTools)
	setDefault(values, KeyLocale, DefaultLocale)
	setDefault(values, KeyColorScheme, DefaultColorScheme)

	setDefault(values, KeyHeadless, DefaultHeadless)
	setDefault(values, KeyRecordVideo, DefaultRecordVideo)
	setDefault(values, KeyTakeScreenshots, DefaultTakeScreenshots)
	setDefault(values, KeyBrowserType, DefaultBrowserType)
	setDefault(values, KeyCaptureNetwork, DefaultCaptureNetwork)
	setDefault(values, KeyDontCloseBrowser, DefaultDontCloseBrowser)
}

// setDefault assigns value only when key is absent (fill-if-absent, not
// overwrite). An explicitly merged empty string stays an empty string.
func setDefault(values map[string]string, key, value string) {
	if _, ok := values[key]; !ok {
		values[key] = value
	}
}
