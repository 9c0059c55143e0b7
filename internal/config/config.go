// Package config loads the function's environment configuration. It is
// read once, at cold start.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

const (
	EnvTableName      = "TABLE_NAME"
	EnvTableNameParam = "TABLE_NAME_PARAM"
	EnvRegion         = "REGION"
	EnvLogLevel       = "LOG_LEVEL"
)

// Config is the startup configuration. Region, when set, overrides the SDK
// default region.
type Config struct {
	TableName      string
	TableNameParam string
	Region         string
	LogLevel       slog.Level
}

// ParamGetter resolves SSM parameter values.
type ParamGetter interface {
	Value(ctx context.Context, name string) (string, error)
}

// Load reads the configuration through getenv (normally os.Getenv).
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		TableName:      strings.TrimSpace(getenv(EnvTableName)),
		TableNameParam: strings.TrimSpace(getenv(EnvTableNameParam)),
		Region:         strings.TrimSpace(getenv(EnvRegion)),
		LogLevel:       slog.LevelInfo,
	}
	if cfg.TableName == "" && cfg.TableNameParam == "" {
		return Config{}, fmt.Errorf("config: one of %s or %s must be set", EnvTableName, EnvTableNameParam)
	}
	if lvl := strings.TrimSpace(getenv(EnvLogLevel)); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
		}
	}
	return cfg, nil
}

// NeedsParamStore reports whether the table name must come from SSM.
func (c Config) NeedsParamStore() bool {
	return c.TableName == "" && c.TableNameParam != ""
}

// ResolveTableName returns TABLE_NAME when set and otherwise reads the
// parameter named by TABLE_NAME_PARAM.
func (c Config) ResolveTableName(ctx context.Context, params ParamGetter) (string, error) {
	if c.TableName != "" {
		return c.TableName, nil
	}
	if params == nil {
		return "", errors.New("config: parameter store client is required to resolve the table name")
	}
	name, err := params.Value(ctx, c.TableNameParam)
	if err != nil {
		return "", fmt.Errorf("config: resolve table name: %w", err)
	}
	return name, nil
}
