package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	defaultAppEnv       = "local"
	defaultLogLevel     = ""
	defaultEventMode    = "breadth_first"
	defaultEventOnError = "failfast"
	defaultMetricsAddr  = ":9090"

	jsonConfigPath = "config/app.json"
	dotEnvPath     = ".env"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// Load reads config/app.json and .env once. Process environment variables
// win over both files. Missing files are not an error.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles(jsonConfigPath, dotEnvPath)
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":        defaultAppEnv,
		"LOG_LEVEL":      defaultLogLevel,
		"EVENT_MODE":     defaultEventMode,
		"EVENT_ON_ERROR": defaultEventOnError,
		"METRICS_ADDR":   defaultMetricsAddr,
	}
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

// LogLevel is empty unless set; the logger then picks a level from AppEnv.
func LogLevel() string {
	_ = Load()
	return strings.ToLower(get("LOG_LEVEL", defaultLogLevel))
}

// EventMode is returned verbatim; event.ParseMode decides whether it is valid.
func EventMode() string {
	_ = Load()
	return get("EVENT_MODE", defaultEventMode)
}

func EventOnError() string {
	_ = Load()
	return strings.ToLower(get("EVENT_ON_ERROR", defaultEventOnError))
}

func MetricsAddr() string {
	_ = Load()
	return get("METRICS_ADDR", defaultMetricsAddr)
}

// Values is the typed view of the settings the bus and its tooling consume.
type Values struct {
	AppEnv       string `json:"app_env" validate:"required"`
	LogLevel     string `json:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	EventMode    string `json:"event_mode" validate:"required"`
	EventOnError string `json:"event_on_error" validate:"oneof=failfast log ignore"`
	MetricsAddr  string `json:"metrics_addr" validate:"required,hostname_port|startswith=:"`
}

// Settings returns the effective settings after validating them.
// EventMode is deliberately not constrained here: an unknown mode must
// surface as event.ErrInvalidMode when the bus is built.
func Settings() (Values, error) {
	if err := Load(); err != nil {
		return Values{}, fmt.Errorf("config: %w", err)
	}

	v := Values{
		AppEnv:       AppEnv(),
		LogLevel:     LogLevel(),
		EventMode:    EventMode(),
		EventOnError: EventOnError(),
		MetricsAddr:  MetricsAddr(),
	}
	if err := validate.Struct(v); err != nil {
		return v, fmt.Errorf("config: invalid settings: %w", err)
	}
	return v, nil
}

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mergeProcessEnv(loaded)

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, value := range env {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(value)
	}
	return nil
}

// mergeProcessEnv lets the environment override every known key.
func mergeProcessEnv(out map[string]string) {
	for key := range defaultValues() {
		if value, ok := os.LookupEnv(key); ok {
			out[key] = strings.TrimSpace(value)
		}
	}
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Reload reads the sources again, replacing the cached values.
// Tests use it after changing the environment.
func Reload() error {
	loadOnce.Do(func() {})
	loadErr = loadFromFiles(jsonConfigPath, dotEnvPath)
	return loadErr
}
