package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/treykane/carbon-blueprint/internal/logging"
)

var log = logging.New("config")

const (
	configDirName  = ".carbon-blueprint"
	configFileName = "config.json"
)

// In-flight submission policies.
const (
	// PolicyReject refuses a new submission while one is outstanding.
	PolicyReject = "reject"
	// PolicyReplace cancels the outstanding submission and starts a new one.
	PolicyReplace = "replace"
)

// Export formats understood by the report exporter.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

const (
	DefaultAPIBaseURL            = "http://localhost:5000"
	DefaultAnalyzePath           = "/api/analyze"
	DefaultRequestTimeoutSeconds = 120
	DefaultMaxUploadMB           = 50
)

// Environment variables that override file settings.
const (
	EnvAPIBaseURL     = "CARBON_BLUEPRINT_API_URL"
	EnvAnalyzePath    = "CARBON_BLUEPRINT_ANALYZE_PATH"
	EnvTimeout        = "CARBON_BLUEPRINT_TIMEOUT"
	EnvMaxUploadMB    = "CARBON_BLUEPRINT_MAX_UPLOAD_MB"
	EnvInFlightPolicy = "CARBON_BLUEPRINT_IN_FLIGHT_POLICY"
	EnvExportDir      = "CARBON_BLUEPRINT_EXPORT_DIR"
)

var ErrNotConfigured = errors.New("carbon-blueprint is not configured")

// Config stores user-defined carbon-blueprint settings.
type Config struct {
	APIBaseURL            string            `json:"api_base_url"`
	AnalyzePath           string            `json:"analyze_path"`
	RequestTimeoutSeconds int               `json:"request_timeout_seconds"`
	MaxUploadMB           int               `json:"max_upload_mb"`
	AcceptedExtensions    []string          `json:"accepted_extensions"`
	InFlightPolicy        string            `json:"in_flight_policy"`
	StartDir              string            `json:"start_dir,omitempty"`
	ExportDir             string            `json:"export_dir,omitempty"`
	ExportFormats         []string          `json:"export_formats,omitempty"`
	Keybindings           map[string]string `json:"keybindings,omitempty"`
}

// DefaultExtensions lists the blueprint formats the analysis service accepts.
func DefaultExtensions() []string {
	return []string{".pdf", ".dwg", ".ifc"}
}

// Default returns a configuration populated with built-in defaults.
func Default() Config {
	return Config{
		APIBaseURL:            DefaultAPIBaseURL,
		AnalyzePath:           DefaultAnalyzePath,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
		MaxUploadMB:           DefaultMaxUploadMB,
		AcceptedExtensions:    DefaultExtensions(),
		InFlightPolicy:        PolicyReject,
		ExportFormats:         []string{FormatMarkdown, FormatHTML},
	}
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Exists reports whether the config file exists.
func Exists() (bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat config path: %w", err)
}

// Load reads and validates the saved configuration. Missing fields are filled
// with defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, ErrNotConfigured
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return Normalize(cfg)
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	cfg, err := Normalize(cfg)
	if err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	log.Info("saved config", "path", path)
	return nil
}

// Normalize fills unset fields with defaults and validates the rest.
func Normalize(cfg Config) (Config, error) {
	def := Default()

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = def.APIBaseURL
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Config{}, fmt.Errorf("invalid api_base_url %q: must be an absolute http(s) URL", cfg.APIBaseURL)
	}

	cfg.AnalyzePath = strings.TrimSpace(cfg.AnalyzePath)
	if cfg.AnalyzePath == "" {
		cfg.AnalyzePath = def.AnalyzePath
	}
	if !strings.HasPrefix(cfg.AnalyzePath, "/") {
		cfg.AnalyzePath = "/" + cfg.AnalyzePath
	}

	if cfg.RequestTimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("invalid request_timeout_seconds %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	if cfg.MaxUploadMB < 0 {
		return Config{}, fmt.Errorf("invalid max_upload_mb %d", cfg.MaxUploadMB)
	}
	if cfg.MaxUploadMB == 0 {
		cfg.MaxUploadMB = def.MaxUploadMB
	}

	exts, err := normalizeExtensions(cfg.AcceptedExtensions)
	if err != nil {
		return Config{}, err
	}
	if len(exts) == 0 {
		exts = def.AcceptedExtensions
	}
	cfg.AcceptedExtensions = exts

	policy := strings.ToLower(strings.TrimSpace(cfg.InFlightPolicy))
	switch policy {
	case "":
		policy = def.InFlightPolicy
	case PolicyReject, PolicyReplace:
	default:
		return Config{}, fmt.Errorf("invalid in_flight_policy %q: want %q or %q", cfg.InFlightPolicy, PolicyReject, PolicyReplace)
	}
	cfg.InFlightPolicy = policy

	if strings.TrimSpace(cfg.StartDir) != "" {
		dir, err := NormalizeDir(cfg.StartDir)
		if err != nil {
			return Config{}, fmt.Errorf("invalid start_dir: %w", err)
		}
		cfg.StartDir = dir
	}
	if strings.TrimSpace(cfg.ExportDir) != "" {
		dir, err := NormalizeDir(cfg.ExportDir)
		if err != nil {
			return Config{}, fmt.Errorf("invalid export_dir: %w", err)
		}
		cfg.ExportDir = dir
	}

	formats, err := normalizeFormats(cfg.ExportFormats)
	if err != nil {
		return Config{}, err
	}
	if len(formats) == 0 {
		formats = def.ExportFormats
	}
	cfg.ExportFormats = formats

	return cfg, nil
}

// ApplyEnv overrides configuration fields from environment variables. The
// lookup function is usually os.LookupEnv.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookupTrimmed(lookup, EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookupTrimmed(lookup, EnvAnalyzePath); ok {
		cfg.AnalyzePath = v
	}
	if v, ok := lookupTrimmed(lookup, EnvTimeout); ok {
		seconds, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.RequestTimeoutSeconds = seconds
	}
	if v, ok := lookupTrimmed(lookup, EnvMaxUploadMB); ok {
		mb, err := strconv.Atoi(v)
		if err != nil || mb <= 0 {
			return Config{}, fmt.Errorf("%s: invalid size %q", EnvMaxUploadMB, v)
		}
		cfg.MaxUploadMB = mb
	}
	if v, ok := lookupTrimmed(lookup, EnvInFlightPolicy); ok {
		cfg.InFlightPolicy = v
	}
	if v, ok := lookupTrimmed(lookup, EnvExportDir); ok {
		cfg.ExportDir = v
	}
	return Normalize(cfg)
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped. It returns the files that were loaded.
func LoadDotEnv(paths ...string) ([]string, error) {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, err
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		log.Debug("loaded env file", "path", path)
		loaded = append(loaded, path)
	}
	return loaded, nil
}

// AnalyzeURL joins the API base URL and the analyze path.
func (c Config) AnalyzeURL() (string, error) {
	return url.JoinPath(c.APIBaseURL, c.AnalyzePath)
}

// RequestTimeout returns the per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// DefaultExportDir returns the directory reports are exported to when
// export_dir is unset.
func DefaultExportDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, "carbon-blueprint", "reports"), nil
}

// ResolvedExportDir returns ExportDir or the default export directory.
func (c Config) ResolvedExportDir() (string, error) {
	if c.ExportDir != "" {
		return c.ExportDir, nil
	}
	return DefaultExportDir()
}

// NormalizeDir expands and normalizes a directory path.
func NormalizeDir(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := ExpandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}

func normalizeExtensions(exts []string) ([]string, error) {
	out := make([]string, 0, len(exts))
	seen := map[string]bool{}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if ext == "." || strings.ContainsAny(ext, `/\ `) {
			return nil, fmt.Errorf("invalid accepted extension %q", ext)
		}
		if seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out, nil
}

func normalizeFormats(formats []string) ([]string, error) {
	out := make([]string, 0, len(formats))
	seen := map[string]bool{}
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "":
			continue
		case "markdown":
			f = FormatMarkdown
		case "yml":
			f = FormatYAML
		case FormatMarkdown, FormatHTML, FormatJSON, FormatYAML:
		default:
			return nil, fmt.Errorf("invalid export format %q", f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func lookupTrimmed(lookup func(string) (string, bool), key string) (string, bool) {
	if lookup == nil {
		return "", false
	}
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// parseSeconds accepts either a bare number of seconds or a Go duration
// string such as "90s" or "2m".
func parseSeconds(value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid timeout %q", value)
		}
		return n, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < time.Second {
		return 0, fmt.Errorf("invalid timeout %q", value)
	}
	return int(d / time.Second), nil
}
