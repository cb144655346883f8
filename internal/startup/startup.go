package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"image-service/internal/logging"

	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Default pipeline constants. Qualities follow the canonical encoding
// contract: originals at 95, thumbnails at 85.
const (
	DefaultThumbnailHeight  = 320
	DefaultMaxUploadSize    = 100 << 20 // 100 MiB
	DefaultMaxBatchFiles    = 20
	NormalizeJPEGQuality    = 95
	ThumbnailJPEGQuality    = 85
	DefaultFileTimeout      = 2 * time.Minute
	defaultRAWExtensions    = "cr2,cr3,arw,nef,raf,dng,rw2"
	defaultRasterExtensions = "jpg,jpeg,png,webp"
)

// Config holds all application configuration. It is built once at startup
// and treated as immutable afterwards.
type Config struct {
	UploadDir       string
	DatabaseDir     string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	ThumbnailHeight int
	MaxUploadSize   int64
	MaxBatchFiles   int
	FileTimeout     time.Duration
	RAWExtensions   []string
	ImageExtensions []string
	PresetSecret    string

	// Derived paths
	OriginalsDir  string
	ThumbnailsDir string
	PresetsDir    string
	TempDir       string
	DatabasePath  string

	// Feature flags
	PresetSigningEnabled bool
}

// LoadConfig loads and validates configuration from the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		logging.Debug("Loaded environment from .env file")
	}

	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	databaseDir := getEnv("DATABASE_DIR", "./database")
	port := getEnv("PORT", "5000")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	thumbnailHeight := getEnvInt("THUMBNAIL_HEIGHT", DefaultThumbnailHeight)
	maxUploadSize := getEnvInt64("MAX_FILE_SIZE", DefaultMaxUploadSize)
	maxBatchFiles := getEnvInt("MAX_BATCH_FILES", DefaultMaxBatchFiles)
	fileTimeout := getEnvDuration("FILE_TIMEOUT", DefaultFileTimeout)
	rawExts := splitExtensions(getEnv("ALLOWED_RAW_EXTENSIONS", defaultRAWExtensions))
	imageExts := splitExtensions(getEnv("ALLOWED_IMAGE_EXTENSIONS", defaultRasterExtensions))
	presetSecret := os.Getenv("PRESET_SECRET")

	logging.Info("  UPLOAD_DIR:               %s", uploadDir)
	logging.Info("  DATABASE_DIR:             %s", databaseDir)
	logging.Info("  PORT:                     %s", port)
	logging.Info("  METRICS_PORT:             %s", metricsPort)
	logging.Info("  METRICS_ENABLED:          %v", metricsEnabled)
	logging.Info("  THUMBNAIL_HEIGHT:         %d", thumbnailHeight)
	logging.Info("  MAX_FILE_SIZE:            %d", maxUploadSize)
	logging.Info("  MAX_BATCH_FILES:          %d", maxBatchFiles)
	logging.Info("  FILE_TIMEOUT:             %s", fileTimeout)
	logging.Info("  ALLOWED_RAW_EXTENSIONS:   %s", strings.Join(rawExts, ","))
	logging.Info("  ALLOWED_IMAGE_EXTENSIONS: %s", strings.Join(imageExts, ","))
	logging.Info("  PRESET_SECRET:            %s", secretStatus(presetSecret))
	logging.Info("  LOG_LEVEL:                %s", logging.GetLevel())

	if thumbnailHeight < 1 {
		return nil, fmt.Errorf("THUMBNAIL_HEIGHT must be positive, got %d", thumbnailHeight)
	}
	if maxUploadSize < 1 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", maxUploadSize)
	}
	if len(rawExts) == 0 && len(imageExts) == 0 {
		return nil, fmt.Errorf("no upload extensions configured")
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	uploadDir, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory path: %w", err)
	}
	logging.Info("  Upload directory (absolute): %s", uploadDir)

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", databaseDir)

	config := &Config{
		UploadDir:            uploadDir,
		DatabaseDir:          databaseDir,
		Port:                 port,
		MetricsPort:          metricsPort,
		MetricsEnabled:       metricsEnabled,
		ThumbnailHeight:      thumbnailHeight,
		MaxUploadSize:        maxUploadSize,
		MaxBatchFiles:        maxBatchFiles,
		FileTimeout:          fileTimeout,
		RAWExtensions:        rawExts,
		ImageExtensions:      imageExts,
		PresetSecret:         presetSecret,
		OriginalsDir:         filepath.Join(uploadDir, "originals"),
		ThumbnailsDir:        filepath.Join(uploadDir, "thumbnails"),
		PresetsDir:           filepath.Join(uploadDir, "presets"),
		TempDir:              filepath.Join(uploadDir, "temp"),
		DatabasePath:         filepath.Join(databaseDir, "assets.db"),
		PresetSigningEnabled: presetSecret != "",
	}

	for _, dir := range []string{config.UploadDir, config.OriginalsDir, config.ThumbnailsDir, config.PresetsDir, config.TempDir, config.DatabaseDir} {
		if err := ensureDirectory(dir); err != nil {
			return nil, fmt.Errorf("directory %s: %w", dir, err)
		}
	}

	logging.Debug("  Testing upload directory write access...")
	if err := testWriteAccess(config.UploadDir); err != nil {
		return nil, fmt.Errorf("upload directory is not writable: %w", err)
	}
	logging.Info("  [OK] Upload directory is writable")

	if err := testWriteAccess(config.DatabaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable: %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Image pipeline:  ENABLED (required)")
	logging.Info("    Preset signing:  %s", enabledString(config.PresetSigningEnabled))
	logging.Info("    Metrics:         %s", enabledString(config.MetricsEnabled))
	if !config.PresetSigningEnabled {
		logging.Warn("    PRESET_SECRET is not set; preset uploads will be rejected")
	}

	return config, nil
}

func secretStatus(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "(set)"
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func splitExtensions(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogRegistryInit logs asset registry initialization.
func LogRegistryInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ASSET REGISTRY INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Registry initialized in %v", duration)
}

// LogPipelineInit logs pipeline initialization.
func LogPipelineInit(workerCount int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("PIPELINE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Batch workers: %d", workerCount)
}

// ServerConfig holds parameters for the server startup log.
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with endpoint information.
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start.
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step.
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step.
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion.
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits.
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	logging.Info("------------------------------------------------------------")
	logging.Info("  image-service")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	logging.Info("")
}

func ensureDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("  [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
