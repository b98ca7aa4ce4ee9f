package log

import (
	"fmt"
	"strings"
)

// Config declares a logger.
type Config struct {
	// Level is debug|info|warn|error.
	Level string `json:"level" yaml:"level"`
	// Format is text|json.
	Format string `json:"format" yaml:"format"`
	// Output is console|null.
	Output string `json:"output" yaml:"output"`
	// Redact lists field keys whose values are never written.
	Redact []string `json:"redact" yaml:"redact"`
	// Caller adds file:line to text output.
	Caller bool `json:"caller" yaml:"caller"`
}

// ApplyConfig builds a Logger from cfg. A nil cfg yields info/text/console.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := []LoggerOption{WithLevel(level), WithRedactions(cfg.Redact...)}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		opts = append(opts, WithFormatter(&TextFormatter{ShowCaller: cfg.Caller}))
	case "json":
		opts = append(opts, WithFormatter(&JSONFormatter{}))
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	switch strings.ToLower(cfg.Output) {
	case "", "console", "stderr":
		opts = append(opts, WithOutput(NewConsoleOutput()))
	case "null", "none":
		opts = append(opts, WithOutput(NullOutput{}))
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}
	return NewLogger(opts...), nil
}

// NewNopLogger returns a logger that writes nothing.
func NewNopLogger() Logger {
	return NewLogger(WithLevel(ErrorLevel), WithOutput(NullOutput{}))
}
