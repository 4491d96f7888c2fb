package render

import (
	"bytes"
	"strings"
	"testing"

	"episodeview/internal/episode"
)

func sample() []episode.Episode {
	return []episode.Episode{
		{Rank: 1, HasRank: true, Title: "Rose & <Friends>", Writer: "Russell T Davies", Doctor: &episode.Doctor{Actor: "Christopher Eccleston", Incarnation: "Ninth"}},
		{Rank: 2, HasRank: true, Title: "Blink", BroadcastDate: "2007-06-09"},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "html": FormatHTML, "md": FormatMarkdown, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestTableText(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, sample(), Options{Format: FormatText, SortField: episode.FieldRank, Ascending: true}); err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Rose & <Friends>") {
		t.Fatalf("text output must show unescaped titles:\n%s", out)
	}
	if !strings.Contains(out, "▲") {
		t.Fatalf("sorted column must carry the direction arrow:\n%s", out)
	}
	if !strings.Contains(out, "Christopher Eccleston (Ninth)") || !strings.Contains(out, "2007") {
		t.Fatalf("formatted cells missing:\n%s", out)
	}
}

func TestTableHTMLKeepsSanitizedCells(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, sample(), Options{Format: FormatHTML, SortField: episode.FieldTitle}); err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Rose &amp; &lt;Friends&gt;") {
		t.Fatalf("expected sanitized title once:\n%s", out)
	}
	if strings.Contains(out, "&amp;amp;") || strings.Contains(out, "<Friends>") {
		t.Fatalf("cells must be escaped exactly once:\n%s", out)
	}
	if !strings.Contains(out, "▼") {
		t.Fatalf("descending arrow expected:\n%s", out)
	}
}

func TestTableMarkdownAndCSV(t *testing.T) {
	var md bytes.Buffer
	if err := Table(&md, sample(), Options{Format: FormatMarkdown}); err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	if !strings.Contains(md.String(), "| Blink") {
		t.Fatalf("unexpected markdown:\n%s", md.String())
	}

	var csv bytes.Buffer
	if err := Table(&csv, sample(), Options{Format: FormatCSV, SortField: episode.FieldRank, Ascending: true}); err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header plus two rows, got %d lines:\n%s", len(lines), csv.String())
	}
	if strings.Contains(lines[0], "▲") {
		t.Fatal("csv header must stay plain")
	}
}

func TestTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Table(&buf, nil, Options{Format: FormatText}); err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != NoData {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
