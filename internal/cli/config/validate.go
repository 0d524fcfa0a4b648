package config

import (
	"fmt"
	"slices"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	levels := []string{LogLevelSilent, LogLevelInfo, LogLevelDebug}
	if !slices.Contains(levels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of %v", c.LogLevel, levels)
	}

	formats := []string{LogFormatText, LogFormatJSON}
	if !slices.Contains(formats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be one of %v", c.LogFormat, formats)
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}
