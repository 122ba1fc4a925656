// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by the tool.
const EnvPrefix = "MEATSTATS"

// CategorySpec describes where one statistical category lives in the workbook.
type CategorySpec struct {
	Sheet           string `mapstructure:"sheet" yaml:"sheet"`
	HeaderRow       int    `mapstructure:"header_row" yaml:"header_row"`
	Anchor          string `mapstructure:"anchor" yaml:"anchor"`
	EndAnchor       string `mapstructure:"end_anchor" yaml:"end_anchor"`
	DropLastColumn  bool   `mapstructure:"drop_last_column" yaml:"drop_last_column"`
	MinObservations int    `mapstructure:"min_observations" yaml:"min_observations"`
}

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Workbook struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"workbook" yaml:"workbook"`

	Categories struct {
		Production      CategorySpec `mapstructure:"production" yaml:"production"`
		SlaughterCount  CategorySpec `mapstructure:"slaughter_count" yaml:"slaughter_count"`
		SlaughterWeight CategorySpec `mapstructure:"slaughter_weight" yaml:"slaughter_weight"`
		AverageWeight   CategorySpec `mapstructure:"average_weight" yaml:"average_weight"`
	} `mapstructure:"categories" yaml:"categories"`

	Normalize struct {
		FillLimit       int    `mapstructure:"fill_limit" yaml:"fill_limit"`
		CorrectionsFile string `mapstructure:"corrections_file" yaml:"corrections_file"`
	} `mapstructure:"normalize" yaml:"normalize"`

	Weights struct {
		UnitScale float64 `mapstructure:"unit_scale" yaml:"unit_scale"`
	} `mapstructure:"weights" yaml:"weights"`

	Rollup struct {
		Divisor float64 `mapstructure:"divisor" yaml:"divisor"`
		// MonthsPresent maps a year (as text, YAML keys are strings) to the
		// number of months actually reported for it.
		MonthsPresent map[string]int `mapstructure:"months_present" yaml:"months_present"`
	} `mapstructure:"rollup" yaml:"rollup"`

	Census struct {
		BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
		DelayMillis    int    `mapstructure:"delay_ms" yaml:"delay_ms"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		StartYear      int    `mapstructure:"start_year" yaml:"start_year"`
		EndYear        int    `mapstructure:"end_year" yaml:"end_year"`
		ShapesFile     string `mapstructure:"shapes_file" yaml:"shapes_file"`
	} `mapstructure:"census" yaml:"census"`

	Chart struct {
		WidthInches  float64 `mapstructure:"width_inches" yaml:"width_inches"`
		HeightInches float64 `mapstructure:"height_inches" yaml:"height_inches"`
	} `mapstructure:"chart" yaml:"chart"`
}

// InitializeConfigFrom loads configuration, reading the given file when it is
// not empty instead of searching the standard locations.
func InitializeConfigFrom(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.meat-stats")
		v.AddConfigPath(".meat-stats")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicitly given)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. The Census key is read from its conventional, unprefixed variable
	if err := v.BindEnv("census.api_key", "CENSUS_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind CENSUS_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Defaults returns the built-in configuration, ignoring config files and
// the environment.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("workbook.path", "data/meat_statistics.xlsx")

	setCategoryDefaults(v, "production", "RedMeatPoultry_Prod-Full", "Federally inspected", "", true, 0)
	setCategoryDefaults(v, "slaughter_count", "SlaughterCounts-Full", "Federally inspected", "", true, 0)
	setCategoryDefaults(v, "slaughter_weight", "SlaughterWeights-Full", "Federally inspected", "Average live weight", false, 3)
	setCategoryDefaults(v, "average_weight", "SlaughterWeights-Full", "Average dressed weight", "", true, 3)

	v.SetDefault("normalize.fill_limit", 2)
	v.SetDefault("normalize.corrections_file", "")

	// average weight (pounds) x head (thousands) = thousand pounds; 0.001 yields million pounds
	v.SetDefault("weights.unit_scale", 0.001)

	v.SetDefault("rollup.divisor", 1000.0)
	v.SetDefault("rollup.months_present", map[string]int{})

	v.SetDefault("census.base_url", "https://api.census.gov/data")
	v.SetDefault("census.api_key", "")
	v.SetDefault("census.delay_ms", 500)
	v.SetDefault("census.timeout_seconds", 30)
	v.SetDefault("census.start_year", 1990)
	v.SetDefault("census.end_year", 2019)
	v.SetDefault("census.shapes_file", "")

	v.SetDefault("chart.width_inches", 10.0)
	v.SetDefault("chart.height_inches", 5.0)
}

func setCategoryDefaults(v *viper.Viper, name, sheet, anchor, endAnchor string, dropLast bool, minObs int) {
	prefix := "categories." + name + "."
	v.SetDefault(prefix+"sheet", sheet)
	v.SetDefault(prefix+"header_row", 1)
	v.SetDefault(prefix+"anchor", anchor)
	v.SetDefault(prefix+"end_anchor", endAnchor)
	v.SetDefault(prefix+"drop_last_column", dropLast)
	v.SetDefault(prefix+"min_observations", minObs)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Normalize.FillLimit < 0 {
		return fmt.Errorf("normalize.fill_limit must not be negative, got: %d", config.Normalize.FillLimit)
	}

	if config.Weights.UnitScale <= 0 {
		return fmt.Errorf("weights.unit_scale must be positive, got: %f", config.Weights.UnitScale)
	}

	if config.Rollup.Divisor == 0 {
		return fmt.Errorf("rollup.divisor must not be zero")
	}

	if _, err := config.MonthsPresent(); err != nil {
		return err
	}

	if config.Census.DelayMillis < 0 {
		return fmt.Errorf("census.delay_ms must not be negative, got: %d", config.Census.DelayMillis)
	}

	if config.Census.TimeoutSeconds < 1 || config.Census.TimeoutSeconds > 300 {
		return fmt.Errorf("census.timeout_seconds must be between 1 and 300, got: %d", config.Census.TimeoutSeconds)
	}

	if config.Census.EndYear < config.Census.StartYear {
		return fmt.Errorf("census.end_year (%d) is before census.start_year (%d)", config.Census.EndYear, config.Census.StartYear)
	}

	return nil
}

// MonthsPresent returns the partial-year table keyed by integer year.
func (c *Config) MonthsPresent() (map[int]int, error) {
	out := make(map[int]int, len(c.Rollup.MonthsPresent))
	for key, months := range c.Rollup.MonthsPresent {
		year, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("rollup.months_present: invalid year %q", key)
		}
		if months < 1 || months > 12 {
			return nil, fmt.Errorf("rollup.months_present: year %d must have between 1 and 12 months, got: %d", year, months)
		}
		out[year] = months
	}
	return out, nil
}

// CensusDelay returns the pause enforced between two API requests.
func (c *Config) CensusDelay() time.Duration {
	return time.Duration(c.Census.DelayMillis) * time.Millisecond
}

// CensusTimeout returns the HTTP client timeout for API requests.
func (c *Config) CensusTimeout() time.Duration {
	return time.Duration(c.Census.TimeoutSeconds) * time.Second
}
