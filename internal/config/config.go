// Package config resolves helmad settings once at process start. Sources, in
// order of precedence: command-line flags, HELMAD_* environment variables,
// the config file, built-in defaults.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/helmad/internal/helm"
	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
)

// Setting keys. Flags carry the same names.
const (
	KeyHelmBinary = "helm-binary"
	KeyTimeout    = "timeout"
	KeyLogLevel   = "log-level"
	KeyOutput     = "output"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. HELMAD_HELM_BINARY.
	EnvPrefix = "HELMAD"

	configName = ".helmad"
)

// Output formats.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputJSON  = "json"
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{OutputTable, OutputYAML, OutputJSON}

// Config is the resolved configuration.
type Config struct {
	HelmBinary string
	Timeout    time.Duration
	LogLevel   log.Level
	Output     string
	// File is the config file that was read, empty if none.
	File string
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyHelmBinary, helm.DefaultBinary)
	v.SetDefault(KeyTimeout, helm.DefaultTimeout.String())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyOutput, OutputTable)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every setting that has a flag of the same name in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeyHelmBinary, KeyTimeout, KeyLogLevel, KeyOutput} {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return &chart.ConfigError{Argument: key, Reason: err.Error()}
		}
	}
	return nil
}

// ReadFile reads path, or $HOME/.helmad.yaml when path is empty. A missing
// default file is not an error; a missing explicit file is.
func ReadFile(v *viper.Viper, fs afero.Fs, path string) error {
	v.SetFs(fs)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Debug("No home directory, skipping default config file", "error", err)
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return &chart.ConfigError{Argument: "config file", Reason: err.Error()}
	}
	log.Debug("Using config file", "path", v.ConfigFileUsed())
	return nil
}

// Load validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		HelmBinary: strings.TrimSpace(v.GetString(KeyHelmBinary)),
		Output:     strings.ToLower(strings.TrimSpace(v.GetString(KeyOutput))),
		File:       v.ConfigFileUsed(),
	}

	if cfg.HelmBinary == "" {
		return nil, &chart.ConfigError{Argument: KeyHelmBinary, Reason: "must not be empty"}
	}

	timeout, err := time.ParseDuration(v.GetString(KeyTimeout))
	if err != nil {
		return nil, &chart.ConfigError{Argument: KeyTimeout, Reason: err.Error()}
	}
	if timeout <= 0 {
		return nil, &chart.ConfigError{Argument: KeyTimeout, Reason: "must be positive"}
	}
	cfg.Timeout = timeout

	level, err := log.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, &chart.ConfigError{Argument: KeyLogLevel, Reason: err.Error()}
	}
	cfg.LogLevel = level

	if !validOutput(cfg.Output) {
		return nil, &chart.ConfigError{
			Argument: KeyOutput,
			Reason:   cfg.Output + " is not one of " + strings.Join(OutputFormats, ", "),
		}
	}
	return cfg, nil
}

func validOutput(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
