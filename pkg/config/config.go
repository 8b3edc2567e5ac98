// Package config loads soatools settings from an optional YAML file,
// SOA_-prefixed environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ChaseLewis/SOARandomizer/pkg/common"
)

// FileName is the config file name searched for without an explicit path.
const FileName = "soatools"

// LogConfig configures log output.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// SaveConfig configures writing the disc.
type SaveConfig struct {
	Retries      int  `mapstructure:"retries" yaml:"retries"`
	RetryDelayMS int  `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
	Backup       bool `mapstructure:"backup" yaml:"backup"`
}

// RetryDelay is RetryDelayMS as a duration.
func (s SaveConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMS) * time.Millisecond
}

// ExportConfig configures batch CSV export.
type ExportConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ImportConfig configures CSV import.
type ImportConfig struct {
	// Strict blocks writing a type back when its import reported any issue.
	Strict bool `mapstructure:"strict" yaml:"strict"`
}

// Config is the full soatools configuration.
type Config struct {
	ISO     string       `mapstructure:"iso" yaml:"iso"`
	CSVDir  string       `mapstructure:"csv_dir" yaml:"csv_dir"`
	Verbose bool         `mapstructure:"verbose" yaml:"verbose"`
	Log     LogConfig    `mapstructure:"log" yaml:"log"`
	Save    SaveConfig   `mapstructure:"save" yaml:"save"`
	Export  ExportConfig `mapstructure:"export" yaml:"export"`
	Import  ImportConfig `mapstructure:"import" yaml:"import"`

	// path of the file the values were read from, if any
	source string
}

// Source is the config file that was used, or "" when none was found.
func (c *Config) Source() string { return c.source }

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CSVDir: "csv",
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Save: SaveConfig{
			Retries:      2,
			RetryDelayMS: 100,
			Backup:       true,
		},
		Export: ExportConfig{Workers: 4},
		Import: ImportConfig{Strict: true},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.CSVDir == "" {
		errs = append(errs, errors.New("csv_dir must not be empty"))
	}
	if c.Log.MaxSizeMB < 1 {
		errs = append(errs, fmt.Errorf("log.max_size_mb must be at least 1, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log.max_backups and log.max_age_days must not be negative"))
	}
	if c.Save.Retries < 0 || c.Save.Retries > 10 {
		errs = append(errs, fmt.Errorf("save.retries must be between 0 and 10, got %d", c.Save.Retries))
	}
	if c.Save.RetryDelayMS < 0 {
		errs = append(errs, fmt.Errorf("save.retry_delay_ms must not be negative, got %d", c.Save.RetryDelayMS))
	}
	if c.Export.Workers < 1 || c.Export.Workers > 64 {
		errs = append(errs, fmt.Errorf("export.workers must be between 1 and 64, got %d", c.Export.Workers))
	}
	return errors.Join(errs...)
}

// LogOptions converts the log settings for common.ConfigureLogging.
func (c *Config) LogOptions() common.LogOptions {
	return common.LogOptions{
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Verbose:    c.Verbose,
	}
}

// Load reads the configuration from the OS file system. See LoadFs.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path, flags)
}

// LoadFs reads the configuration. An explicit path must exist; without one
// soatools.yaml is looked up in the working directory and in
// $HOME/.config/soatools, and its absence is not an error. Flags that were
// set on the command line override file and environment values.
func LoadFs(fs afero.Fs, path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix("SOA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, common.FormatError(common.ErrFailedToLoadConfig, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, common.FormatError(common.ErrFailedToLoadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, common.FormatError(common.ErrFailedToLoadConfig, err)
	}
	cfg.source = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, common.FormatError(common.ErrFailedToLoadConfig, err)
	}
	if cfg.source != "" {
		common.LogDebug(common.DebugConfigFileUsed, cfg.source)
	}
	return cfg, nil
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"iso":     "iso",
	"csv-dir": "csv_dir",
	"verbose": "verbose",
	"backup":  "save.backup",
	"workers": "export.workers",
	"strict":  "import.strict",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("iso", d.ISO)
	v.SetDefault("csv_dir", d.CSVDir)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("save.retries", d.Save.Retries)
	v.SetDefault("save.retry_delay_ms", d.Save.RetryDelayMS)
	v.SetDefault("save.backup", d.Save.Backup)
	v.SetDefault("export.workers", d.Export.Workers)
	v.SetDefault("import.strict", d.Import.Strict)
}

// WriteDefault writes the default configuration as YAML.
func WriteDefault(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return err
	}
	return enc.Close()
}
