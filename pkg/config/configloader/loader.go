package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

type Validator interface {
	Validate() error
}

// Sources names the files the loader reads before the process environment.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

// Load reads config.yaml and .env from the working directory, then environment
// variables prefixed with <SERVICENAME>_, and validates the result.
func Load[T Validator](serviceName string) (T, error) {
	return LoadFrom[T](serviceName, Sources{ConfigFile: DefaultConfigFile, EnvFile: DefaultEnvFile})
}

// LoadFrom is Load with explicit file locations. Later sources override earlier ones.
func LoadFrom[T Validator](serviceName string, src Sources) (T, error) {
	var cfg T
	k := koanf.New(".")

	// PRODUCT_DATABASE_URL -> database.url
	envPrefix := fmt.Sprintf("%s_", strings.ToUpper(serviceName))
	envTransformer := func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, strings.ToLower(envPrefix))
		return strings.ReplaceAll(key, "_", ".")
	}

	// 1. yaml file
	if src.ConfigFile != "" {
		if err := k.Load(file.Provider(src.ConfigFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("error loading config file '%s': %w", src.ConfigFile, err)
		}
	}

	// 2. .env file
	if src.EnvFile != "" {
		envFileMap, err := godotenv.Read(src.EnvFile)
		switch {
		case err == nil:
			envMap := make(map[string]any, len(envFileMap))
			for key, value := range envFileMap {
				if strings.HasPrefix(strings.ToUpper(key), envPrefix) {
					envMap[envTransformer(key)] = value
				}
			}
			if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
				slog.Warn("error loading .env config", slog.Any("error", err))
			}
		case !errors.Is(err, fs.ErrNotExist):
			slog.Warn("error reading .env file", slog.String("file", src.EnvFile), slog.Any("error", err))
		}
	}

	// 3. process environment, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		slog.Warn("error loading system env vars", slog.Any("error", err))
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
