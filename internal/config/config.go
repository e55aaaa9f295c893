package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/five82/embycli/internal/logging"
)

// Config holds the server connection settings.
type Config struct {
	APIURL string `koanf:"api_url" validate:"required,url"`
	APIKey string `koanf:"api_key" validate:"required"`

	// Source is the file the settings came from, or "environment".
	Source string `koanf:"-"`
}

// Options selects where configuration is read from.
type Options struct {
	// Path overrides the config file location.
	Path string
	// EnvFile is a dotenv file loaded into the process environment first.
	EnvFile string
}

const (
	envAPIKey     = "EMBY_API_KEY"
	envAPIURL     = "EMBY_API_URL"
	envConfigPath = "EMBY_CONFIG"
	envPrefix     = "EMBY_"
	configName    = "emby-api.json"

	// SourceEnvironment marks a Config built purely from environment variables.
	SourceEnvironment = "environment"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load resolves the connection settings. EMBY_API_KEY and EMBY_API_URL win
// outright when both are set; otherwise the config file is required and
// either variable may override its counterpart.
func Load(opts Options) (Config, error) {
	if envFile := strings.TrimSpace(opts.EnvFile); envFile != "" {
		expanded, err := expandPath(envFile)
		if err != nil {
			return Config{}, err
		}
		if err := godotenv.Load(expanded); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
		logging.Debug().Str("path", expanded).Msg("loaded env file")
	}

	key, url := os.Getenv(envAPIKey), os.Getenv(envAPIURL)
	if key != "" && url != "" {
		cfg := Config{APIURL: normalizeURL(url), APIKey: key, Source: SourceEnvironment}
		if err := check(cfg, SourceEnvironment); err != nil {
			return Config{}, err
		}
		logging.Debug().Str("source", SourceEnvironment).Msg("config loaded")
		return cfg, nil
	}

	path, err := ResolvePath(opts.Path)
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("Config '%s' doesn't exist\n%s", path, ConfigureHelp(path))
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return Config{}, fmt.Errorf("Failed to parse '%s': %w", path, err)
	}
	overrides := env.ProviderWithValue(envPrefix, ".", func(name, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		switch name {
		case envAPIKey:
			return "api_key", value
		case envAPIURL:
			return "api_url", value
		default:
			return "", nil
		}
	})
	if err := k.Load(overrides, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("Failed to parse '%s': %w", path, err)
	}
	cfg.APIURL = normalizeURL(cfg.APIURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Source = path

	if err := check(cfg, path); err != nil {
		return Config{}, err
	}
	logging.Debug().Str("source", path).Msg("config loaded")
	return cfg, nil
}

// check validates cfg and maps the first failure to a user-facing message.
func check(cfg Config, source string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		if source == SourceEnvironment {
			return fmt.Errorf("Must set '%s'", fe.Field())
		}
		return fmt.Errorf("Must set '%s' in %s\n%s", fe.Field(), source, ConfigureHelp(source))
	}
	return fmt.Errorf("Invalid '%s' in %s: %v", fe.Field(), source, fe.Value())
}

// ResolvePath returns the config file location: the explicit path, then
// $EMBY_CONFIG, then $XDG_CONFIG_HOME/emby-api.json, then
// ~/.config/emby-api.json.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandPath(path)
	}
	if p := os.Getenv(envConfigPath); strings.TrimSpace(p) != "" {
		return expandPath(p)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); strings.TrimSpace(xdg) != "" {
		return expandPath(filepath.Join(xdg, configName))
	}
	return expandPath(filepath.Join("~", ".config", configName))
}

// ConfigureHelp explains how to create a config file at path.
func ConfigureHelp(path string) string {
	return fmt.Sprintf(`
Create '%[1]s' with:
  jq --null-input \
    --arg api_key "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" \
    --arg api_url "http://emby.local:8096" \
    '$ARGS.named' > "%[1]s"
  chmod 600 "%[1]s"`, path)
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return kjson.Parser()
	}
}

func normalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
