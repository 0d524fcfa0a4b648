package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("log-level", "l", DefaultLogLevel, "")
	fs.String("log-format", DefaultLogFormat, "")
	fs.StringP("output-dir", "d", "", "")
	fs.Bool("project", DefaultProject, "")
	fs.IntP("jobs", "j", DefaultJobs, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_Layers(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		env    map[string]string
		args   []string
		want   Config
		wantIn string // expected config file, relative to the temp dir
	}{
		{
			name:   "config file",
			file:   "log_level: debug\njobs: 4\noutput_dir: dist\n",
			want:   Config{LogLevel: "debug", LogFormat: "text", Project: true, OutputDir: "dist", Jobs: 4},
			wantIn: "caleuche.yaml",
		},
		{
			name:   "env overrides file",
			file:   "log_level: debug\njobs: 4\n",
			env:    map[string]string{"CALEUCHE_LOG_LEVEL": "silent", "CALEUCHE_JOBS": "2"},
			want:   Config{LogLevel: "silent", LogFormat: "text", Project: true, Jobs: 2},
			wantIn: "caleuche.yaml",
		},
		{
			name: "flags override env",
			env:  map[string]string{"CALEUCHE_LOG_LEVEL": "silent", "CALEUCHE_LOG_FORMAT": "json"},
			args: []string{"--log-level", "debug", "--project=false", "-j", "8"},
			want: Config{LogLevel: "debug", LogFormat: "json", Project: false, Jobs: 8},
		},
		{
			name:   "unset flags keep file values",
			file:   "output_dir: from-file\nproject: false\n",
			args:   []string{"--log-format", "json"},
			want:   Config{LogLevel: "info", LogFormat: "json", Project: false, OutputDir: "from-file", Jobs: 1},
			wantIn: "caleuche.yaml",
		},
		{
			name: "level is case insensitive",
			args: []string{"--log-level", "DEBUG"},
			want: Config{LogLevel: "debug", LogFormat: "text", Project: true, Jobs: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			if tt.file != "" {
				require.NoError(t, os.WriteFile("caleuche.yaml", []byte(tt.file), 0o600))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, used, err := LoadConfig("", newFlagSet(t, tt.args...))
			require.NoError(t, err)

			assert.Equal(t, tt.want, *cfg)
			assert.Equal(t, tt.wantIn, used)
		})
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("log_format: json\n"), 0o600))

	cfg, used, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		cfgFile   string
		args      []string
		errSubstr string
	}{
		{name: "missing explicit file", cfgFile: "nope.yaml", errSubstr: "error reading config file"},
		{name: "unknown log level", args: []string{"--log-level", "verbose"}, errSubstr: "invalid log level"},
		{name: "unknown log format", args: []string{"--log-format", "xml"}, errSubstr: "invalid log format"},
		{name: "zero jobs", args: []string{"--jobs", "0"}, errSubstr: "jobs must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			_, _, err := LoadConfig(tt.cfgFile, newFlagSet(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	silent := NewLogger(&Config{LogLevel: LogLevelSilent, LogFormat: LogFormatText}, &bytes.Buffer{})
	assert.False(t, silent.Handler().Enabled(ctx, slog.LevelError))

	info := NewLogger(&Config{LogLevel: LogLevelInfo, LogFormat: LogFormatText}, &bytes.Buffer{})
	assert.True(t, info.Handler().Enabled(ctx, slog.LevelInfo))
	assert.False(t, info.Handler().Enabled(ctx, slog.LevelDebug))

	var buf bytes.Buffer
	debug := NewLogger(&Config{LogLevel: LogLevelDebug, LogFormat: LogFormatJSON}, &buf)
	debug.Debug("resolved variant", "index", 2)
	assert.Contains(t, buf.String(), `"msg":"resolved variant"`)
	assert.Contains(t, buf.String(), `"index":2`)
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Default(), GetConfig(ctx))
	assert.NotNil(t, GetLogger(ctx))

	cfg := &Config{LogLevel: LogLevelDebug, LogFormat: LogFormatText, Jobs: 3}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx = WithLogger(WithConfig(ctx, cfg), logger)

	assert.Same(t, cfg, GetConfig(ctx))
	assert.Same(t, logger, GetLogger(ctx))
}
