package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/devpulse/pkg/popularity"
	"gopkg.in/yaml.v2"
)

// fakeSearch answers /search/repositories with a fixed total_count per
// language qualifier.
func fakeSearch(t *testing.T, counts map[string]int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/search/repositories" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query().Get("q")
		for lang, n := range counts {
			if strings.HasPrefix(q, "language:"+lang+" ") {
				fmt.Fprintf(w, `{"total_count": %d, "incomplete_results": false, "items": []}`, n)
				return
			}
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func languagesConfig(t *testing.T, baseURL string) string {
	return writeConfig(t, fmt.Sprintf(`
[popularity]
languages = ["Rust", "Go"]

[github]
base_url = %q

[cache]
backend = "none"
`, baseURL))
}

func TestLanguagesCommandJSON(t *testing.T) {
	srv, calls := fakeSearch(t, map[string]int{"Go": 300, "Rust": 100})
	cfg := languagesConfig(t, srv.URL)

	out, err := execute(t, "--config", cfg, "languages", "--format", "json")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}

	var got []popularity.LanguagePopularity
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	want := []popularity.LanguagePopularity{
		{Language: "Go", RepositoryCount: 300, PercentageShare: 75},
		{Language: "Rust", RepositoryCount: 100, PercentageShare: 25},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("search calls = %d, want 2", n)
	}
}

func TestLanguagesCommandTableUsesCommandOutput(t *testing.T) {
	srv, _ := fakeSearch(t, map[string]int{"Go": 3000, "Rust": 1000})
	cfg := languagesConfig(t, srv.URL)

	out, err := execute(t, "--config", cfg, "languages")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	for _, want := range []string{
		"Language Popularity",
		"Repositories with more than 100 stars",
		"Go",
		" 75%",
		"Total: 4,000 repositories",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLanguagesCommandFlagsOverrideConfig(t *testing.T) {
	srv, calls := fakeSearch(t, map[string]int{"Go": 10, "Zig": 30, "Rust": 1})
	cfg := languagesConfig(t, srv.URL)

	out, err := execute(t, "--config", cfg, "languages",
		"--lang", "Go", "--lang", "Zig", "--concurrency", "2", "--format", "yaml")
	if err != nil {
		t.Fatalf("languages: %v", err)
	}

	var got []popularity.LanguagePopularity
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(got) != 2 || got[0].Language != "Zig" || got[0].PercentageShare != 75 {
		t.Errorf("unexpected ranking: %+v", got)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("search calls = %d, want 2", n)
	}
}

func TestLanguagesCommandFailure(t *testing.T) {
	srv, _ := fakeSearch(t, map[string]int{"Rust": 100})
	cfg := languagesConfig(t, srv.URL)

	if _, err := execute(t, "--config", cfg, "languages", "--format", "json"); err == nil {
		t.Fatal("expected an error when one language cannot be counted")
	}
}

func TestLanguagesCommandRejectsBadInput(t *testing.T) {
	srv, calls := fakeSearch(t, map[string]int{})
	cfg := languagesConfig(t, srv.URL)

	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"languages", "--format", "xml"}},
		{"duplicate language", []string{"languages", "--lang", "Go", "--lang", "go"}},
		{"negative stars", []string{"languages", "--min-stars=-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, append([]string{"--config", cfg}, tt.args...)...); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if n := calls.Load(); n != 0 {
		t.Errorf("search calls = %d, want none for rejected input", n)
	}
}
