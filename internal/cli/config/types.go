// Package config provides configuration management for the caleuche CLI.
//
// Values are layered with koanf: built-in defaults, then an optional
// caleuche.yaml, then CALEUCHE_ environment variables, then flags that were
// set explicitly on the command line.
package config

// Config holds all CLI configuration options.
type Config struct {
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	// Project adds language project files to batch outputs.
	Project bool `koanf:"project"`
	// OutputDir is the root for batch outputs (empty: next to the batch file).
	OutputDir string `koanf:"output_dir"`
	Jobs      int    `koanf:"jobs"`
}

// Log levels accepted by --log-level.
const (
	LogLevelSilent = "silent"
	LogLevelInfo   = "info"
	LogLevelDebug  = "debug"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Default configuration values
const (
	DefaultLogLevel  = LogLevelInfo
	DefaultLogFormat = LogFormatText
	DefaultProject   = true
	DefaultJobs      = 1
	EnvPrefix        = "CALEUCHE_"
)

// ConfigFileNames are looked up in the working directory, in order.
var ConfigFileNames = []string{"caleuche.yaml", "caleuche.yml"}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Project:   DefaultProject,
		Jobs:      DefaultJobs,
	}
}
