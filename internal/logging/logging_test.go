package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "default", input: "", want: slog.LevelInfo},
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "warn alias", input: "warning", want: slog.LevelWarn},
		{name: "mixed case", input: " ERROR ", want: slog.LevelError},
		{name: "invalid", input: "nope", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Fatalf("parseLevel(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOpenOutputDefaultsToFileUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	w := openOutput("  ")
	f, ok := w.(*os.File)
	if !ok || f == os.Stderr {
		t.Fatalf("expected the default log file, got %T", w)
	}
	defer f.Close()

	want := filepath.Join(home, ".carbon-blueprint", "carbon-blueprint.log")
	if f.Name() != want {
		t.Fatalf("expected log file %q, got %q", want, f.Name())
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestOpenOutputStderrOnlyWhenRequested(t *testing.T) {
	for _, target := range []string{"stderr", " STDERR "} {
		if got := openOutput(target); got != os.Stderr {
			t.Fatalf("openOutput(%q): expected stderr, got %T", target, got)
		}
	}
}

func TestOpenOutputCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	w := openOutput(path)
	f, ok := w.(*os.File)
	if !ok || f == os.Stderr {
		t.Fatalf("expected a dedicated log file, got %T", w)
	}
	defer f.Close()

	if _, err := f.WriteString("hello\n"); err != nil {
		t.Fatalf("write log: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("unexpected log contents %q", data)
	}
}

func TestOpenOutputCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "app.log")
	w := openOutput(path)
	f, ok := w.(*os.File)
	if !ok || f == os.Stderr {
		t.Fatalf("expected a dedicated log file, got %T", w)
	}
	f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
}

func TestOpenOutputDiscardsWhenFileUnavailable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if got := openOutput(filepath.Join(blocker, "app.log")); got != io.Discard {
		t.Fatalf("expected io.Discard, got %T", got)
	}
}
