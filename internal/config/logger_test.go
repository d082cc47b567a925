package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_NilConfig(t *testing.T) {
	log, err := SetupLogger(nil)
	if err == nil {
		log.Close()
		t.Fatal("expected error for nil log config")
	}
}

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		level     string
		wantLevel slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{" Warn ", slog.LevelWarn},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text"})
			if err != nil {
				t.Fatalf("SetupLogger error: %v", err)
			}
			defer log.Close()

			ctx := context.Background()
			if !log.Enabled(ctx, tt.wantLevel) {
				t.Errorf("level %v should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug && log.Enabled(ctx, tt.wantLevel-1) {
				t.Errorf("level %v should be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestSetupLogger_SetsDefault(t *testing.T) {
	log, err := SetupLogger(&LogConfig{Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	defer log.Close()

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not install slog.Default()")
	}
}

func TestSetupLogger_FileCarriesRequestAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.log")
	log, err := SetupLogger(&LogConfig{
		Level:    "info",
		Format:   "json",
		Color:    boolPtr(false),
		FilePath: path,
	})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}

	ctx := logger.WithContextAttrs(context.Background(), slog.String("request_id", "req-42"))
	log.InfoContext(ctx, "content store request failed", "op", "list_articles")
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"request_id":"req-42"`, `"op":"list_articles"`, "content store request failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %s:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want logger.OutputFormat
	}{
		{"text", logger.FormatText},
		{"JSON", logger.FormatJSON},
		{" json ", logger.FormatJSON},
		{"", logger.FormatCustom},
		{"pretty", logger.FormatCustom},
	}
	for _, tt := range tests {
		if got := parseFormat(tt.in); got != tt.want {
			t.Errorf("parseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuildLoggerOpts(t *testing.T) {
	// Level, context middleware, console format and console color.
	const console = 4
	// File path and file format.
	const file = console + 2

	tests := []struct {
		name string
		cfg  *LogConfig
		want int
	}{
		{"console only", &LogConfig{Level: "info", Format: "text"}, console},
		{"color off", &LogConfig{Level: "info", Format: "text", Color: boolPtr(false)}, console},
		{"file", &LogConfig{Level: "info", Format: "json", FilePath: "content.log"}, file},
		{"file with size", &LogConfig{FilePath: "content.log", MaxSizeMB: 10}, file + 1},
		{"file with retention", &LogConfig{FilePath: "content.log", RetentionDays: 7}, file + 1},
		{"file with backups", &LogConfig{FilePath: "content.log", MaxBackups: 3}, file + 1},
		{"file with compress off", &LogConfig{FilePath: "content.log", CompressRotated: boolPtr(false)}, file + 1},
		{"file with full rotation", &LogConfig{
			FilePath: "content.log", MaxSizeMB: 50, RetentionDays: 30, MaxBackups: 5,
			CompressRotated: boolPtr(true),
		}, file + 4},
		{"rotation ignored without file", &LogConfig{MaxSizeMB: 50, MaxBackups: 5}, console},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(BuildLoggerOpts(tt.cfg)); got != tt.want {
				t.Errorf("option count = %d, want %d", got, tt.want)
			}
		})
	}

	if opts := BuildLoggerOpts(nil); opts != nil {
		t.Errorf("BuildLoggerOpts(nil) = %d options, want nil", len(opts))
	}
}

func TestBuildLoggerOpts_ProducesValidLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotate.log")
	cfgs := []*LogConfig{
		{Level: "debug", Format: "text"},
		{Level: "warn", Format: "json", Color: boolPtr(false)},
		{
			Level: "info", Format: "json", FilePath: path,
			MaxSizeMB: 10, RetentionDays: 7, MaxBackups: 3,
			CompressRotated: boolPtr(true),
		},
	}
	for i, cfg := range cfgs {
		log, err := logger.New(BuildLoggerOpts(cfg)...)
		if err != nil {
			t.Fatalf("config %d: logger.New error: %v", i, err)
		}
		log.Close()
	}
}
