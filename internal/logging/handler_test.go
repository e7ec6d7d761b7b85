package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var linePrefix = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} `)

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo))

	log.Info("game state saved", "tag", "progress", "token", 42)

	line := buf.String()
	if !linePrefix.MatchString(line) {
		t.Fatalf("missing timestamp: %q", line)
	}
	rest := linePrefix.ReplaceAllString(line, "")
	if rest != "[progress] game state saved token=42\n" {
		t.Errorf("got %q", rest)
	}
}

func TestCompactHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := Tagged(slog.New(NewCompactHandler(&buf, slog.LevelDebug)), "hub").With("game", "heartJump")

	log.Debug("refresh", "signal", "poll")

	rest := linePrefix.ReplaceAllString(buf.String(), "")
	if rest != "[hub] refresh game=heartJump signal=poll\n" {
		t.Errorf("got %q", rest)
	}
}

func TestCompactHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo))

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered, got %q", buf.String())
	}

	log.Warn("write session mirror", "err", "disk full")
	if !strings.Contains(buf.String(), "WARN write session mirror err=disk full") {
		t.Errorf("got %q", buf.String())
	}
}

func TestCompactHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, slog.LevelInfo)).WithGroup("llm")

	log.Info("request", "model", "m1", slog.Group("usage", "in", 3))

	if !strings.HasSuffix(buf.String(), "request llm.model=m1 llm.usage.in=3\n") {
		t.Errorf("got %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gift.log")
	log, closer, err := OpenFile(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	log.Info("hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(data), "hello\n") {
		t.Errorf("log file = %q", data)
	}
}
