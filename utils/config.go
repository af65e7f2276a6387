package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure reported by Config.Validate
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the configuration for the game
type Config struct {
	Rows                int           `json:"rows" yaml:"rows" validate:"gt=0"`
	Cols                int           `json:"cols" yaml:"cols" validate:"gt=0"`
	SpeedMS             int           `json:"speed_ms" yaml:"speed_ms" validate:"gt=0"`
	Birth               string        `json:"birth" yaml:"birth" validate:"max=9"`
	Survival            string        `json:"survival" yaml:"survival" validate:"max=9"`
	RandomDensity       float64       `json:"random_density" yaml:"random_density" validate:"gte=0,lte=1"`
	Seed                int64         `json:"seed" yaml:"seed"`
	Patterns            bool          `json:"patterns" yaml:"patterns"`
	FrameRate           time.Duration `json:"frame_rate" yaml:"frame_rate" validate:"gt=0"`
	UseParallel         bool          `json:"use_parallel" yaml:"use_parallel"`
	UseMemoryPool       bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	MaxGenerations      int           `json:"max_generations" yaml:"max_generations" validate:"gte=0"`
	AutoRestart         bool          `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold" yaml:"stagnation_threshold" validate:"gte=1"`
	CellSize            int           `json:"cell_size" yaml:"cell_size" validate:"gte=1,lte=4"`
	ChartHeight         int           `json:"chart_height" yaml:"chart_height" validate:"gte=0"`
	LogLevel            string        `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogJSON             bool          `json:"log_json" yaml:"log_json"`
	LogFile             string        `json:"log_file" yaml:"log_file"`
	MetricsAddr         string        `json:"metrics_addr" yaml:"metrics_addr"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:                50,
		Cols:                50,
		SpeedMS:             100,
		Birth:               "3",
		Survival:            "23",
		RandomDensity:       0.2,
		FrameRate:           16 * time.Millisecond, // roughly one display frame
		UseParallel:         true,
		UseMemoryPool:       true,
		MaxGenerations:      0,
		AutoRestart:         false,
		StagnationThreshold: 5,
		CellSize:            2,
		ChartHeight:         8,
		LogLevel:            "info",
	}
}

// Speed returns the minimum time between scheduled generations
func (c Config) Speed() time.Duration {
	return time.Duration(c.SpeedMS) * time.Millisecond
}

// Validate checks the configuration surface accepted from the host
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] %v", err)
	}
	return nil
}

// UnmarshalJSON reads frame_rate either as a duration string ("16ms"), the
// same form YAML files use, or as integer nanoseconds
func (c *Config) UnmarshalJSON(data []byte) error {
	type fields Config
	aux := struct {
		*fields
		FrameRate json.RawMessage `json:"frame_rate"`
	}{fields: (*fields)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.FrameRate) == 0 || string(aux.FrameRate) == "null" {
		return nil
	}

	frameRate, err := parseDuration(aux.FrameRate)
	if err != nil {
		return err
	}
	c.FrameRate = frameRate
	return nil
}

func parseDuration(raw json.RawMessage) (time.Duration, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		d, err := time.ParseDuration(text)
		if err != nil {
			return 0, errors.Wrapf(err, "[parseDuration] frame_rate %q", text)
		}
		return d, nil
	}

	var nanos int64
	if err := json.Unmarshal(raw, &nanos); err != nil {
		return 0, errors.Wrapf(err, "[parseDuration] frame_rate %s", raw)
	}
	return time.Duration(nanos), nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}
