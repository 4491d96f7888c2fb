package logx

import (
	"bytes"
	"strings"
	"testing"
)

func TestTruncationWhenNotVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetMinLevel(LevelDebug)
	SetVerbose(false)

	long := strings.Repeat("a", 6000)
	Info().Str("body", long).Msg(long)
	got := buf.String()
	if strings.Count(got, "truncated") != 2 {
		t.Fatalf("expected message and field to be truncated, got: %s", got)
	}
	if len(got) > 3*maxFieldLen {
		t.Fatalf("line still too long: %d bytes", len(got))
	}
	if !strings.Contains(got, `"level":"info"`) {
		t.Fatalf("expected the rest of the event to survive, got: %s", got)
	}
}

func TestNoTruncationWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetMinLevel(LevelDebug)
	SetVerbose(true)
	defer SetVerbose(false)

	long := strings.Repeat("b", 4000)
	Info().Msg(long)
	got := buf.String()
	if strings.Contains(got, "truncated") || !strings.Contains(got, long) {
		t.Fatalf("did not expect truncation, got: %s", got)
	}
}

func TestMinLevelDropsLowerLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetMinLevel(LevelWarn)

	Debug().Msg("hidden debug")
	Info().Msg("hidden info")
	Warn().Str("url", "https://example.test/a.json").Msg("visible warning")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Fatalf("expected lower levels to be dropped, got: %s", got)
	}
	if !strings.Contains(got, `"level":"warn"`) || !strings.Contains(got, `"url":"https://example.test/a.json"`) {
		t.Fatalf("expected structured warn line, got: %s", got)
	}
}

func TestTruncatingWriterPassesShortAndForeignLines(t *testing.T) {
	var buf bytes.Buffer
	w := truncatingWriter{out: &buf, limit: 16}
	SetVerbose(false)

	short := []byte(`{"a":"b"}` + "\n")
	if n, err := w.Write(short); err != nil || n != len(short) {
		t.Fatalf("Write = %d, %v", n, err)
	}
	plain := []byte(strings.Repeat("x", 40) + "\n")
	if n, err := w.Write(plain); err != nil || n != len(plain) {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if got := buf.String(); got != string(short)+string(plain) {
		t.Fatalf("lines must pass through unchanged, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
