package config

// Canonical configuration keys. The catalog is closed: accessors only ever
// read keys listed here, and finalization guarantees every non-nullable key
// has a value after construction.
const (
	// KeyMode selects the run mode ("prod", "dev", ...).
	// Default: "prod"
	KeyMode = "MODE"

	// KeyProjectSourceRoot is the root directory every derived path hangs
	// off. Default: "./opt"
	KeyProjectSourceRoot = "PROJECT_SOURCE_ROOT"

	// KeyInputGherkinFilePath is the feature file consumed by a run.
	// Default: <root>/input/test.feature
	KeyInputGherkinFilePath = "INPUT_GHERKIN_FILE_PATH"

	// KeyJUnitXMLBasePath is the directory JUnit result files are written
	// to. Default: <root>/output
	KeyJUnitXMLBasePath = "JUNIT_XML_BASE_PATH"

	// KeyTestDataPath is the directory holding test data files.
	// Default: <root>/test_data
	KeyTestDataPath = "TEST_DATA_PATH"

	// KeyScreenShotPath is the base directory for per-test proof artifacts.
	// Default: <root>/proofs
	KeyScreenShotPath = "SCREEN_SHOT_PATH"

	// KeyProjectTempPath is the base directory for per-test scratch space.
	// Default: <root>/temp
	KeyProjectTempPath = "PROJECT_TEMP_PATH"

	// KeySourceLogFolderPath is the base directory for per-test logs.
	// Default: <root>/log_files
	KeySourceLogFolderPath = "SOURCE_LOG_FOLDER_PATH"

	// KeyTmpGherkinPath is the staging directory for generated feature
	// files. Default: <root>/gherkin_files
	KeyTmpGherkinPath = "TMP_GHERKIN_PATH"

	// KeyBrowserType selects the browser engine.
	// Default: "chromium"
	KeyBrowserType = "BROWSER_TYPE"

	// KeyHeadless toggles headless browser execution. Boolean keys are
	// stored as the literal strings "true"/"false" and compared
	// case-insensitively after trimming. Default: "true"
	KeyHeadless = "HEADLESS"

	// KeyRecordVideo toggles video recording. Default: "true"
	KeyRecordVideo = "RECORD_VIDEO"

	// KeyTakeScreenshots toggles screenshot capture. Default: "true"
	KeyTakeScreenshots = "TAKE_SCREENSHOTS"

	// KeyCaptureNetwork toggles network traffic capture. Default: "true"
	KeyCaptureNetwork = "CAPTURE_NETWORK"

	// KeyDontCloseBrowser keeps the browser open after a run.
	// Default: "false"
	KeyDontCloseBrowser = "DONT_CLOSE_BROWSER"

	// KeyCDPEndpointURL points at an existing browser via the Chrome
	// DevTools Protocol. Nullable: absent unless supplied.
	KeyCDPEndpointURL = "CDP_ENDPOINT_URL"

	// KeyLLMModelName and KeyLLMModelAPIKey form the direct authentication
	// strategy. No defaults: defaults never satisfy auth validation.
	KeyLLMModelName   = "LLM_MODEL_NAME"
	KeyLLMModelAPIKey = "LLM_MODEL_API_KEY"

	// KeyAgentsLLMConfigFile and KeyAgentsLLMConfigFileRefKey form the
	// config-file authentication strategy. No defaults.
	KeyAgentsLLMConfigFile       = "AGENTS_LLM_CONFIG_FILE"
	KeyAgentsLLMConfigFileRefKey = "AGENTS_LLM_CONFIG_FILE_REF_KEY"

	// KeyHFHome is the Hugging Face cache directory.
	// Default: "./.cache"
	KeyHFHome = "HF_HOME"

	// KeyTokenizersParallelism mirrors the tokenizers library toggle.
	// Default: "false"
	KeyTokenizersParallelism = "TOKENIZERS_PARALLELISM"

	// KeyTokenVerbose toggles verbose token accounting.
	// Default: "false"
	KeyTokenVerbose = "TOKEN_VERBOSE"

	// KeyBrowserResolution is the viewport as "width,height".
	// Default: "1920,1080"
	KeyBrowserResolution = "BROWSER_RESOLUTION"

	// KeyRunDevice selects the emulated device class.
	// Default: "desktop"
	KeyRunDevice = "RUN_DEVICE"

	// KeyLocale is the browser locale. Default: "en-US"
	KeyLocale = "LOCALE"

	// KeyTimezone is the browser timezone. Nullable.
	KeyTimezone = "TIMEZONE"

	// KeyGeolocation is the emulated geolocation. Nullable.
	KeyGeolocation = "GEOLOCATION"

	// KeyColorScheme is the preferred color scheme. Default: "light"
	KeyColorScheme = "COLOR_SCHEME"

	// KeyLoadExtraTools toggles optional tool loading. Default: "false"
	KeyLoadExtraTools = "LOAD_EXTRA_TOOLS"

	// KeyGeoProvider and KeyGeoAPIKey configure the geolocation provider.
	// Nullable.
	KeyGeoProvider = "GEO_PROVIDER"
	KeyGeoAPIKey   = "GEO_API_KEY"

	// KeyDefaultTestID seeds the mutable test identifier.
	// Default: "default"
	KeyDefaultTestID = "DEFAULT_TEST_ID"

	// KeyIsTestEnv guards the .env load. It is read from the environment
	// only and never merged into the mapping.
	KeyIsTestEnv = "IS_TEST_ENV"
)

// DefaultTestID is the sentinel test identifier used to namespace per-test
// output directories until SetTestID is called.
const DefaultTestID = "default"

// envAllowList is the fixed set of environment variable names the
// environment source reads. Names not in this list are ignored during the
// merge, matching the closed key catalog.
var envAllowList = [...]string{
	KeyMode,
	KeyProjectSourceRoot,
	KeyInputGherkinFilePath,
	KeyJUnitXMLBasePath,
	KeyTestDataPath,
	KeyBrowserType,
	KeyHeadless,
	KeyRecordVideo,
	KeyTakeScreenshots,
	KeyCaptureNetwork,
	KeyCDPEndpointURL,
	KeyLLMModelName,
	KeyLLMModelAPIKey,
	KeyAgentsLLMConfigFile,
	KeyAgentsLLMConfigFileRefKey,
	KeyHFHome,
	KeyTokenizersParallelism,
	KeyDontCloseBrowser,
	KeyTokenVerbose,
	KeyBrowserResolution,
	KeyRunDevice,
	KeyLocale,
	KeyTimezone,
	KeyGeolocation,
	KeyColorScheme,
	KeyLoadExtraTools,
	KeyGeoProvider,
	KeyGeoAPIKey,
}
