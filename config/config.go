// Package config loads service settings from defaults, an optional YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultDataFile = "data/merged_crime_gdp_population.csv"

// Config is the full service configuration.
type Config struct {
	APITitle   string `mapstructure:"api_title" yaml:"api_title"`
	APIVersion string `mapstructure:"api_version" yaml:"api_version"`

	// DataFilePath is a CSV file or a clickhouse:// / postgres:// DSN. DataQuery selects the
	// rows when it is a DSN.
	DataFilePath string `mapstructure:"data_file_path" yaml:"data_file_path"`
	DataQuery    string `mapstructure:"data_query" yaml:"data_query"`

	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string `mapstructure:"log_format" yaml:"log_format"`
	LogFile       string `mapstructure:"log_file" yaml:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" yaml:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups" yaml:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days" yaml:"log_max_age_days"`
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

var defaults = map[string]any{
	"api_title":        "Socio-Crime Analysis Dashboard API",
	"api_version":      "1.0.0",
	"data_file_path":   DefaultDataFile,
	"data_query":       "",
	"host":             "0.0.0.0",
	"port":             8000,
	"allowed_origins":  []string{"*"},
	"log_level":        "info",
	"log_format":       "text",
	"log_file":         "",
	"log_max_size_mb":  100,
	"log_max_backups":  3,
	"log_max_age_days": 28,
}

// Load builds the configuration. Precedence: environment (CRIMEDF_<KEY>, plus the bare <KEY> for
// the data path, API title, API version and allowed origins; .env included)
// > config file > defaults. An empty cfgFile looks for ./crimedf.yaml and carries on without it.
func Load(cfgFile string) (*Config, error) {
	// .env is optional; real environment variables win over it
	if e := godotenv.Load(); e != nil && !errors.Is(e, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", e)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
		if e := v.BindEnv(append([]string{key}, envNames(key)...)...); e != nil {
			return nil, e
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if e := v.ReadInConfig(); e != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, e)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("crimedf")
		v.SetConfigType("yaml")
		if e := v.ReadInConfig(); e != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(e, &notFound) {
				return nil, fmt.Errorf("read config: %w", e)
			}
		}
	}

	var c Config
	if e := v.Unmarshal(&c); e != nil {
		return nil, fmt.Errorf("unmarshal config: %w", e)
	}

	return &c, nil
}

// Save writes c as YAML to path.
func Save(c *Config, path string) error {
	b, e := yaml.Marshal(c)
	if e != nil {
		return fmt.Errorf("marshal yaml: %w", e)
	}

	if e := os.WriteFile(path, b, 0o644); e != nil {
		return fmt.Errorf("write config: %w", e)
	}

	return nil
}

// bareEnv are the keys also read from their unprefixed variable names.
var bareEnv = []string{"data_file_path", "api_title", "api_version", "allowed_origins"}

// envNames lists the variables key is read from, in order of precedence.
func envNames(key string) []string {
	name := strings.ToUpper(key)
	for _, k := range bareEnv {
		if k == key {
			return []string{"CRIMEDF_" + name, name}
		}
	}

	return []string{"CRIMEDF_" + name}
}
