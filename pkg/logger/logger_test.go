package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel, "json", "")

	l.With(String("component", "board")).Info("board projected",
		Int("rows", 4),
		Bool("cached", true),
		Duration("took", 1500*time.Millisecond),
		Strings("keys", []string{"A", "B"}),
		Error(errors.New("boom")),
	)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	checks := map[string]interface{}{
		"level":     "info",
		"message":   "board projected",
		"component": "board",
		"rows":      float64(4),
		"cached":    true,
		"took":      float64(1500),
		"keys":      "A, B",
		"error":     "boom",
	}
	for k, want := range checks {
		if entry[k] != want {
			t.Errorf("%s: got %v, want %v", k, entry[k], want)
		}
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel, "json", "")
	l.Info("dropped")
	l.Debug("dropped")
	l.Warn("kept")
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("expected one line, got %d: %s", n, buf.String())
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNopDiscards(t *testing.T) {
	Nop().Error("nothing", Any("k", 1))
}
