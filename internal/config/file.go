package config

import "time"

// File represents the structure of the YAML configuration file.
// Every field is optional; unset fields keep the value from NewConfig.
type File struct {
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	UserAgent    string        `yaml:"userAgent,omitempty"`
	Proxy        string        `yaml:"proxy,omitempty"`
	MaxBodySize  int64         `yaml:"maxBodySize,omitempty"`
	MaxRedirects *int          `yaml:"maxRedirects,omitempty"`
	BatchSize    int           `yaml:"batchSize,omitempty"`

	Server ServerFile `yaml:"server,omitempty"`
}

// ServerFile holds the settings of `linkpeek serve`.
type ServerFile struct {
	Listen          string        `yaml:"listen,omitempty"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout,omitempty"`
	LogFormat       string        `yaml:"logFormat,omitempty"`
}

// ApplyTo copies every set field of f into c.
//
// MaxRedirects is a pointer because 0 is a meaningful value (do not follow
// redirects) and must be distinguishable from "not set".
func (f *File) ApplyTo(c *Config) {
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.MaxBodySize != 0 {
		c.MaxBodySize = f.MaxBodySize
	}
	if f.MaxRedirects != nil {
		c.MaxRedirects = *f.MaxRedirects
	}
	if f.BatchSize != 0 {
		c.BatchSize = f.BatchSize
	}
	if f.Server.Listen != "" {
		c.ListenAddress = f.Server.Listen
	}
	if f.Server.ShutdownTimeout != 0 {
		c.ShutdownTimeout = f.Server.ShutdownTimeout
	}
	if f.Server.LogFormat != "" {
		c.LogFormat = f.Server.LogFormat
	}
}
