// Package config defines core configuration types for mdstream.
// These types are pure data structures with no dependencies on loaders.
package config

import "fmt"

// OutputFormat specifies how rendered blocks are printed.
type OutputFormat string

const (
	FormatPretty OutputFormat = "pretty"
	FormatJSON   OutputFormat = "json"
	FormatText   OutputFormat = "text"
)

// Flavor specifies the Markdown flavor used by the structural parser.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Config is the root configuration structure for mdstream.
type Config struct {
	// Flavor specifies the Markdown flavor ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ChunkSize is the chunk size in bytes used when replaying a document
	// through the splitter as a simulated stream.
	ChunkSize int `yaml:"chunk_size"`

	// DetectLanguage enables language detection for code fences without an
	// info word. Pointer so that merging can tell "false" from unset.
	DetectLanguage *bool `yaml:"detect_language"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Debug forces debug logging regardless of LogLevel.
	Debug bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	detect := true
	return &Config{
		Flavor:         FlavorGFM,
		LogLevel:       "info",
		ChunkSize:      64,
		DetectLanguage: &detect,
		Format:         FormatPretty,
	}
}

// LanguageDetection reports the effective DetectLanguage value, defaulting
// to true when unset.
func (c *Config) LanguageDetection() bool {
	return c.DetectLanguage == nil || *c.DetectLanguage
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Flavor {
	case FlavorCommonMark, FlavorGFM, "":
	default:
		return fmt.Errorf("invalid flavor %q (expected commonmark or gfm)", c.Flavor)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("invalid log_level %q (expected debug, info, warn, or error)", c.LogLevel)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("invalid chunk_size %d (must be positive)", c.ChunkSize)
	}
	switch c.Format {
	case FormatPretty, FormatJSON, FormatText, "":
	default:
		return fmt.Errorf("invalid format %q (expected pretty, json, or text)", c.Format)
	}
	return nil
}
