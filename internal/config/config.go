// Package config holds the file based configuration of navsharpe.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/peter-kozarec/navsharpe/internal/dbg"
	"github.com/peter-kozarec/navsharpe/pkg/ratio"
	"github.com/peter-kozarec/navsharpe/pkg/returns"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Column is the NAV column the ratio is computed on
	Column string `yaml:"column"`

	// Period is the sampling period of the NAV series
	Period ratio.Period `yaml:"period"`

	// Factor overrides the periods per year of Period when non zero
	Factor float64 `yaml:"factor"`

	// RiskFree is the per-period risk free return
	RiskFree float64 `yaml:"risk_free"`

	// ZeroPolicy is "null" or "error"
	ZeroPolicy string `yaml:"zero_policy"`

	DDOF      int `yaml:"ddof"`
	Workers   int `yaml:"workers"`
	ChunkSize int `yaml:"chunk_size"`

	Log LogConfig `yaml:"log"`
	SQL SQLConfig `yaml:"sql"`
	S3  S3Config  `yaml:"s3"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// SQLConfig applies to duckdb://, postgres:// and sqlite:// sources.
type SQLConfig struct {
	Query string `yaml:"query"`
}

type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

func Default() Config {
	return Config{
		Column:     "cumulative_nav",
		Period:     ratio.Daily,
		ZeroPolicy: returns.ZeroAsNull.String(),
		DDOF:       1,
		ChunkSize:  1 << 16,
		Log: LogConfig{
			Mode: dbg.ModeDev,
		},
		SQL: SQLConfig{
			Query: "SELECT * FROM fund_nav ORDER BY 1",
		},
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Load reads path over the defaults. A missing file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Column == "" {
		errs = append(errs, errors.New("column must not be empty"))
	}
	if c.Period.Factor() == 0 {
		errs = append(errs, fmt.Errorf("invalid period %d", int(c.Period)))
	}
	if c.Factor < 0 {
		errs = append(errs, fmt.Errorf("factor must not be negative, got %v", c.Factor))
	}
	if _, err := returns.ParseZeroPolicy(c.ZeroPolicy); err != nil {
		errs = append(errs, err)
	}
	if c.DDOF < 0 {
		errs = append(errs, fmt.Errorf("ddof must not be negative, got %d", c.DDOF))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.Log.Mode != dbg.ModeDev && c.Log.Mode != dbg.ModeProd {
		errs = append(errs, fmt.Errorf("log.mode must be %q or %q, got %q", dbg.ModeDev, dbg.ModeProd, c.Log.Mode))
	}
	return errors.Join(errs...)
}
