package resource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/sandrolain/goxq/pkg/resource"
)

func TestDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.xq")
	// UTF-8 byte order mark followed by content.
	if err := os.WriteFile(path, []byte("\xef\xbb\xbfcount(1)"), 0o600); err != nil {
		t.Fatal(err)
	}
	f := resource.Default()
	for _, loc := range []string{path, "file://" + path} {
		got, err := f.Fetch(context.Background(), loc)
		if err != nil {
			t.Fatalf("%s: %v", loc, err)
		}
		if got != "count(1)" {
			t.Fatalf("%s: expected %q, got %q", loc, "count(1)", got)
		}
	}
}

func TestDefaultUTF16File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utf16.txt")
	// "hi" in UTF-16LE with BOM.
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 'h', 0, 'i', 0}, 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := resource.Default().Fetch(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
}

func TestDefaultMissingFile(t *testing.T) {
	_, err := resource.Default().Fetch(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDefaultHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/latin1":
			w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
			_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
		case "/big":
			_, _ = w.Write(make([]byte, 64))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := resource.Default(resource.WithHTTPClient(srv.Client()), resource.WithMaxSize(32))
	got, err := f.Fetch(context.Background(), srv.URL+"/latin1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "café" {
		t.Fatalf("expected %q, got %q", "café", got)
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/big"); err == nil {
		t.Fatal("expected size limit error")
	}
}

func TestFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := resource.Default().Fetch(ctx, "whatever"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestFSFetcher(t *testing.T) {
	f := resource.FSFetcher{FS: fstest.MapFS{
		"queries/a.xq": {Data: []byte(`"a"`)},
	}}
	got, err := f.Fetch(context.Background(), "/queries/a.xq")
	if err != nil {
		t.Fatal(err)
	}
	if got != `"a"` {
		t.Fatalf("expected %q, got %q", `"a"`, got)
	}
	if _, err := f.Fetch(context.Background(), "queries/b.xq"); err == nil {
		t.Fatal("expected error")
	}
}
