package config

import (
	"os"

	"github.com/rshade/virtlist/internal/logging"
)

// ToLoggingConfig converts the logging section to logging.Config.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// WithEnv returns a copy with VIRTLIST_LOG_LEVEL and VIRTLIST_LOG_FORMAT applied.
func (lc *LoggingConfig) WithEnv(lookupEnv func(string) (string, bool)) LoggingConfig {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	out := *lc
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		out.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		out.Format = v
	}
	return out
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Flag overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
