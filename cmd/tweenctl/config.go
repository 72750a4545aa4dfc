// Config loading for tweenctl.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = "tweenctl"
	configFileType = "yaml"
	envPrefix      = "TWEENCTL"

	cfgKeyTPS       = "tps"
	cfgKeyTimeScale = "time_scale"
	cfgKeyVerbose   = "verbose"

	defaultTPS       = 60
	defaultTimeScale = 1.0
)

// cliConfig holds the values shared by all subcommands.
// TPS and TimeScale stay zero unless the config file or environment sets them,
// so scene playback and saved settings are not shadowed by built-in defaults.
type cliConfig struct {
	TPS       int
	TimeScale float64
	Verbose   bool
}

// playback picks the first positive tps and time scale from the candidates,
// in priority order, falling back to 60 and 1.
func playback(tps []int, timeScale []float64) (int, float64) {
	outTPS, outScale := defaultTPS, defaultTimeScale
	for _, t := range tps {
		if t > 0 {
			outTPS = t
			break
		}
	}
	for _, s := range timeScale {
		if s > 0 {
			outScale = s
			break
		}
	}
	return outTPS, outScale
}

// loadConfig reads tweenctl.yaml and TWEENCTL_* environment variables.
// An explicit path must exist; the implicit ./tweenctl.yaml is optional.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyVerbose, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveConfig converts the viper view into validated values.
// Keys that are not set anywhere stay zero.
func resolveConfig(v *viper.Viper) (cliConfig, error) {
	cfg := cliConfig{Verbose: v.GetBool(cfgKeyVerbose)}
	if v.IsSet(cfgKeyTPS) {
		cfg.TPS = v.GetInt(cfgKeyTPS)
		if cfg.TPS <= 0 {
			return cfg, fmt.Errorf("%s must be positive, got %d", cfgKeyTPS, cfg.TPS)
		}
	}
	if v.IsSet(cfgKeyTimeScale) {
		cfg.TimeScale = v.GetFloat64(cfgKeyTimeScale)
		if cfg.TimeScale <= 0 {
			return cfg, fmt.Errorf("%s must be positive, got %v", cfgKeyTimeScale, cfg.TimeScale)
		}
	}
	return cfg, nil
}
