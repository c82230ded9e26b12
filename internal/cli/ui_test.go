package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/devpulse/pkg/popularity"
)

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-45000:   "-45,000",
		10000000: "10,000,000",
	}
	for n, want := range tests {
		if got := formatCount(n); got != want {
			t.Errorf("formatCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := map[int]string{
		12:      "12",
		1500:    "1.5k",
		999999:  "1000.0k",
		2500000: "2.5M",
	}
	for n, want := range tests {
		if got := formatCompact(n); got != want {
			t.Errorf("formatCompact(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatRelativeTime(t *testing.T) {
	if got := formatRelativeTime(time.Time{}); got != "never" {
		t.Errorf("zero time = %q", got)
	}
	if got := formatRelativeTime(time.Now().Add(-3 * time.Hour)); got != "3h ago" {
		t.Errorf("3 hours = %q", got)
	}
	old := time.Date(2020, time.March, 4, 0, 0, 0, 0, time.UTC)
	if got := formatRelativeTime(old); got != "Mar 4, 2020" {
		t.Errorf("old = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("héllo wörld", 5); got != "héll…" {
		t.Errorf("truncate runes = %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Errorf("truncate zero = %q", got)
	}
}

func TestRenderLanguageBars(t *testing.T) {
	results := []popularity.LanguagePopularity{
		{Language: "Go", RepositoryCount: 3000, PercentageShare: 75},
		{Language: "Rust", RepositoryCount: 1000, PercentageShare: 25},
		{Language: "Zig", RepositoryCount: 1, PercentageShare: 0},
	}
	out := renderLanguageBars(results, []string{"#00ADD8"}, 20)

	for _, want := range []string{" 1. ", "Go", " 75%", "3,000 repositories", " 2. ", "Rust", " 3. ", "Zig", "  0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, iconBar); n != 15+5+1 {
		t.Errorf("bar cells = %d, want 21", n)
	}
}

func TestRenderLanguageBarsEmpty(t *testing.T) {
	if out := renderLanguageBars(nil, nil, 0); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{formatTable, formatJSON, formatYAML} {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) = %v", f, err)
		}
	}
	if err := validateFormat("csv"); err == nil {
		t.Error("expected error for csv")
	}
}

func TestWriteStructured(t *testing.T) {
	v := []popularity.LanguagePopularity{{Language: "Go", RepositoryCount: 5, PercentageShare: 100}}

	var buf bytes.Buffer
	ok, err := writeStructured(&buf, formatJSON, v)
	if !ok || err != nil {
		t.Fatalf("json: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(buf.String(), `"percentage_share": 100`) {
		t.Errorf("json output = %s", buf.String())
	}

	buf.Reset()
	ok, err = writeStructured(&buf, formatYAML, v)
	if !ok || err != nil {
		t.Fatalf("yaml: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(buf.String(), "repository_count: 5") {
		t.Errorf("yaml output = %s", buf.String())
	}

	buf.Reset()
	ok, err = writeStructured(&buf, formatTable, v)
	if ok || err != nil || buf.Len() != 0 {
		t.Errorf("table: ok=%v err=%v len=%d", ok, err, buf.Len())
	}
}

func TestReadToken(t *testing.T) {
	got, err := readToken(strings.NewReader("\n  ghp_abc123  \nignored\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "ghp_abc123" {
		t.Errorf("readToken = %q", got)
	}

	if _, err := readToken(strings.NewReader("\n\n")); err == nil {
		t.Error("expected error for empty input")
	}
}
