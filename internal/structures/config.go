package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" validate:"required|in:file,sqlite"`
	Path   string `yaml:"path" validate:"required|unixPath"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DisplayConfig holds the user's listing and language preferences.
type DisplayConfig struct {
	Locale                  string `yaml:"locale" validate:"required|in:en,de"`
	SortNotes               string `yaml:"sortNotes" validate:"required|in:asc,desc"`
	SortMilestones          string `yaml:"sortMilestones" validate:"required|in:asc,desc"`
	HideCompletedMilestones bool   `yaml:"hideCompletedMilestones"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Store     StoreConfig   `yaml:"store"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Display   DisplayConfig `yaml:"display"`
}
