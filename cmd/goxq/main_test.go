package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/goxq/pkg/types"
)

const library = `<library><book id="b1"><title>Go Programming</title></book><book id="b2"><title>XML Basics</title></book></library>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "library.xml", library)
	writeFile(t, dir, "tree/a.txt", "hello")
	writeFile(t, dir, "query.xq", `count(.//book)`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"count", []string{"query", "--db", lib, "count(.//book)"}, "2\n"},
		{"nodes", []string{"query", "--db", lib, ".//title"}, "<title>Go Programming</title>\n<title>XML Basics</title>\n"},
		{"separator", []string{"query", "--db", lib, "--separator", ",", ".//title/text()"}, "Go Programming,XML Basics\n"},
		{"empty result", []string{"query", "()"}, ""},
		{"file", []string{"query", "--db", lib, "--file", filepath.Join(dir, "query.xq")}, "2\n"},
		{"db by name", []string{"query", "--db", "books=" + lib, `string(db("books", 4))`}, "Go Programming\n"},
		{"index", []string{"query", "--db", lib, "--index", "fulltext", `count(index("xml", "fulltext"))`}, "1\n"},
		{"directory", []string{"query", "--db", filepath.Join(dir, "tree"), "count(.//file)"}, "1\n"},
		{"context", []string{"query", "--db", lib, "--db", filepath.Join(dir, "tree"), "--context", "tree", "count(.//file)"}, "1\n"},
		{"plan", []string{"plan", `count((1, 2, 3))`}, "3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestQueryCommandJSON(t *testing.T) {
	lib := writeFile(t, t.TempDir(), "library.xml", library)

	got, err := execute(t, "query", "--json", "--db", lib, ".//title/text()")
	if err != nil {
		t.Fatal(err)
	}
	var resp response
	if err := json.Unmarshal([]byte(got), &resp); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(response{Result: []string{"Go Programming", "XML Basics"}}, resp); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}

	got, err = execute(t, "query", "--json", "--db", lib, `index("x", "text")`)
	if types.CodeOf(err) != types.ErrIndexNotBuilt {
		t.Fatalf("expected %s, got %v", types.ErrIndexNotBuilt, err)
	}
	resp = response{}
	if err := json.Unmarshal([]byte(got), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != string(types.ErrIndexNotBuilt) || !strings.Contains(resp.Error, "text index") {
		t.Fatalf("unexpected error envelope %+v", resp)
	}
}

func TestQueryCommandErrors(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "library.xml", library)
	tests := []struct {
		name string
		args []string
	}{
		{"no query", []string{"query", "--db", lib}},
		{"query and file", []string{"query", "--file", lib, "1"}},
		{"missing database", []string{"query", "--db", filepath.Join(dir, "missing.xml"), "1"}},
		{"unknown index", []string{"query", "--index", "spatial", "1"}},
		{"unknown context", []string{"query", "--db", lib, "--context", "nope", "1"}},
		{"bad log level", []string{"query", "--log-level", "loud", "1"}},
		{"bad log format", []string{"query", "--log-format", "xml", "1"}},
		{"syntax", []string{"query", "count("}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestEnvironment(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "library.xml", library)
	t.Setenv("GOXQ_DB", lib)
	t.Setenv("GOXQ_INDEX", "text")

	got, err := execute(t, "query", `count(index("XML Basics", "text"))`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "1\n" {
		t.Fatalf("expected 1, got %q", got)
	}

	config := writeFile(t, dir, "goxq.yaml", "separator: \"|\"\n")
	got, err = execute(t, "query", "--config", config, ".//title/text()")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Go Programming|XML Basics\n" {
		t.Fatalf("expected config separator, got %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	got, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(got) == "" {
		t.Fatal("expected a version")
	}
}
