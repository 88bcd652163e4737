// Package config loads gradeflow settings from defaults, an optional
// gradeflow.yaml, a .env file, GRADEFLOW_* variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GRADEFLOW_COURSE.
const EnvPrefix = "GRADEFLOW"

type Config struct {
	Root        string         `mapstructure:"root"`
	Course      string         `mapstructure:"course"`
	StagingDir  string         `mapstructure:"staging_dir"`
	NotebookExt string         `mapstructure:"notebook_ext"`
	ReceiptExt  string         `mapstructure:"receipt_ext"`
	Placeholder string         `mapstructure:"placeholder"`
	Nbgrader    NbgraderConfig `mapstructure:"nbgrader"`
	Log         LogConfig      `mapstructure:"log"`
	Report      ReportConfig   `mapstructure:"report"`
}

type NbgraderConfig struct {
	Bin string `mapstructure:"bin"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables the rotated JSON log when set.
	File string `mapstructure:"file"`
}

type ReportConfig struct {
	XLSX bool `mapstructure:"xlsx"`
}

// ErrNoCourse indicates no course name was configured.
var ErrNoCourse = errors.New("course name not configured")

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"root":     "root",
	"course":   "course",
	"staging":  "staging_dir",
	"nbgrader": "nbgrader.bin",
}

// Load reads the configuration. path names an explicit config file; when
// empty, gradeflow.yaml is looked up in the working directory. A .env file
// in the working directory is loaded first if present. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault("root", ".")
	v.SetDefault("staging_dir", "temp")
	v.SetDefault("notebook_ext", ".ipynb")
	v.SetDefault("receipt_ext", ".txt")
	v.SetDefault("placeholder", "Needs Grading")
	v.SetDefault("nbgrader.bin", "nbgrader")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("report.xlsx", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gradeflow")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.NotebookExt, ".") {
		cfg.NotebookExt = "." + cfg.NotebookExt
	}
	if !strings.HasPrefix(cfg.ReceiptExt, ".") {
		cfg.ReceiptExt = "." + cfg.ReceiptExt
	}
	if abs, err := filepath.Abs(cfg.Root); err == nil {
		cfg.Root = abs
	}
	return &cfg, nil
}

// Validate reports settings every workflow needs.
func (c *Config) Validate() error {
	if c.Course == "" {
		return ErrNoCourse
	}
	return nil
}
