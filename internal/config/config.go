package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultSolver is the engine used when none is configured.
	DefaultSolver = "gophersat"
	// DefaultTimeLimit bounds the search when neither a flag nor an argument sets it.
	DefaultTimeLimit = 10 * time.Second

	envPrefix  = "GOLFER"
	configName = "golfer"
)

type Config struct {
	Solver       string        `mapstructure:"solver"`
	TimeLimit    time.Duration `mapstructure:"timelimit"`
	Threads      int           `mapstructure:"threads"`
	MaxVariables uint64        `mapstructure:"maxvariables"`
	Solvers      SolverPaths   `mapstructure:"solvers"`
	Log          Log           `mapstructure:"log"`
	MetricsFile  string        `mapstructure:"metricsfile"`
}

// SolverPaths locates the external SAT binaries; empty values fall back to $PATH lookups.
type SolverPaths struct {
	Kissat  string `mapstructure:"kissat"`
	Cadical string `mapstructure:"cadical"`
	Minisat string `mapstructure:"minisat"`
	Glucose string `mapstructure:"glucose"`
}

type Log struct {
	File        string `mapstructure:"file"` // Empty means stderr
	Verbosity   int    `mapstructure:"verbosity"`
	Development bool   `mapstructure:"development"`
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"solver":        "solver",
	"threads":       "threads",
	"max-variables": "maxvariables",
	"log-file":      "log.file",
	"verbosity":     "log.verbosity",
	"metrics-file":  "metricsfile",
}

// Load resolves the configuration from, in increasing precedence: defaults, the configuration
// file, GOLFER_* environment variables and the flags set on the command line. When path is empty
// golfer.{yaml,json,...} is looked up next to the executable and in the working directory, and its
// absence is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("cannot read config file %v: %w", path, err)
		}
	} else {
		v.SetConfigName(configName)
		if execPath, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(execPath))
		}
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("cannot bind flag %v: %w", name, err)
				}
			}
		}
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &config,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return Config{}, fmt.Errorf("cannot decode config: %w", err)
	}

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver", DefaultSolver)
	v.SetDefault("timelimit", DefaultTimeLimit)
	v.SetDefault("threads", 1)
	v.SetDefault("maxvariables", 0)
	v.SetDefault("solvers.kissat", "")
	v.SetDefault("solvers.cadical", "")
	v.SetDefault("solvers.minisat", "")
	v.SetDefault("solvers.glucose", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.development", false)
	v.SetDefault("metricsfile", "")
}

// Validate checks for invalid configuration values.
func (config Config) Validate() error {
	if config.Solver == "" {
		return errors.New("solver must not be empty")
	} else if config.TimeLimit < 0 {
		return fmt.Errorf("time limit must not be negative: %v", config.TimeLimit)
	} else if config.Threads < 1 {
		return fmt.Errorf("threads must be at least 1: %v", config.Threads)
	} else if config.Log.Verbosity < 0 {
		return fmt.Errorf("verbosity must not be negative: %v", config.Log.Verbosity)
	}
	return nil
}
