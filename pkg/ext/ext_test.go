package ext_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/sandrolain/goxq"
	"github.com/sandrolain/goxq/pkg/ext"
	"github.com/sandrolain/goxq/pkg/ext/extstring"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

func eval(t *testing.T, query string, opts ...goxq.Option) []string {
	t.Helper()
	result, err := goxq.Eval(query, nil, opts...)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", query, err)
	}
	var out []string
	for i := range result.Size() {
		s, err := value.Serialize(result.ItemAt(i))
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, s)
	}
	return out
}

// ── WithAll ────────────────────────────────────────────────────────────────

func TestWithAll_StringFunctions(t *testing.T) {
	opt := ext.WithAll()

	tests := []struct {
		query string
		want  []string
	}{
		{`starts-with("Hello World", "Hello")`, []string{"true"}},
		{`starts-with("Hello World", "World")`, []string{"false"}},
		{`ends-with("Hello World", "World")`, []string{"true"}},
		{`contains("abcabc", "ca")`, []string{"true"}},
		{`contains((), "")`, []string{"true"}},
		{`upper-case("goxq")`, []string{"GOXQ"}},
		{`lower-case("GoXQ")`, []string{"goxq"}},
		{`string-length("häuser")`, []string{"6"}},
		{`normalize-space("  a   b  ")`, []string{"a b"}},
		{`substring-before("key=value", "=")`, []string{"key"}},
		{`substring-after("key=value", "=")`, []string{"value"}},
		{`substring-after("key", "=")`, []string{""}},
		{`words(" one two  three ")`, []string{"one", "two", "three"}},
		{`count(words(""))`, []string{"0"}},
		{`repeat("ab", 3)`, []string{"ababab"}},
		{`repeat("ab", "2")`, []string{"abab"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := eval(t, tt.query, opt)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithAll_CryptoFunctions(t *testing.T) {
	opt := ext.WithAll()

	tests := []struct {
		query string
		want  string
	}{
		{`hash("abc", "md5")`, "900150983cd24fb0d6963f7d28e17f72"},
		{`hash("abc", "sha1")`, "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{`hash("abc", "SHA256")`, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{`hash("", "xxh64")`, "ef46db3751d8e999"},
		{
			`hmac("The quick brown fox jumps over the lazy dog", "key", "sha256")`,
			"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
		},
		{`string-length(hash("abc", "sha512"))`, "128"},
		{`string-length(hash("abc", "sha384"))`, "96"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := eval(t, tt.query, opt)
			if diff := cmp.Diff([]string{tt.want}, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRandomUUID(t *testing.T) {
	got := eval(t, `(random-uuid(), random-uuid())`, ext.WithCrypto())
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %v", got)
	}
	for _, s := range got {
		id, err := uuid.Parse(s)
		if err != nil {
			t.Fatalf("invalid uuid %q: %v", s, err)
		}
		if id.Version() != 4 {
			t.Errorf("expected version 4, got %d", id.Version())
		}
	}
	if got[0] == got[1] {
		t.Error("expected distinct identifiers")
	}
}

func TestRandomUUIDNotPreEvaluated(t *testing.T) {
	q, err := goxq.Prepare(t.Context(), `random-uuid()`, nil, ext.WithCrypto())
	if err != nil {
		t.Fatal(err)
	}
	if plan := q.Plan(); plan != "random-uuid()" {
		t.Fatalf("expected runtime call in plan, got %s", plan)
	}
	first, err := q.Value(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	second, err := q.Value(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if first.ItemAt(0).Equal(second.ItemAt(0)) {
		t.Error("expected a new identifier per evaluation")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		query string
		code  types.ErrorCode
	}{
		{`hash("abc", "crc32")`, types.ErrInvalidArgument},
		{`hmac("abc", "key", "xxh64")`, types.ErrInvalidArgument},
		{`repeat("a", -1)`, types.ErrInvalidArgument},
		{`repeat("a", "x")`, types.ErrInvalidArgument},
		{`repeat("a", 1e30)`, types.ErrInvalidArgument},
		{`repeat("a", (1, 2))`, types.ErrType},
		{`upper-case(("a", "b"))`, types.ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := goxq.Eval(tt.query, nil, ext.WithAll())
			var qe *types.Error
			if !errors.As(err, &qe) {
				t.Fatalf("expected *types.Error, got %v", err)
			}
			if qe.Code != tt.code {
				t.Fatalf("expected %s, got %s (%v)", tt.code, qe.Code, err)
			}
		})
	}
}

func TestWithString_ExcludesCrypto(t *testing.T) {
	_, err := goxq.Eval(`hash("abc", "md5")`, nil, ext.WithString())
	if types.CodeOf(err) != types.ErrUnknownFunction {
		t.Fatalf("expected unknown function, got %v", err)
	}
}

func TestSingleFunction(t *testing.T) {
	got := eval(t, `starts-with("goxq", "go")`, goxq.WithFunctions(extstring.StartsWith()))
	if diff := cmp.Diff([]string{"true"}, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestAllNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, d := range ext.All() {
		if seen[d.Name] {
			t.Errorf("duplicate function %q", d.Name)
		}
		seen[d.Name] = true
		if d.Fn == nil {
			t.Errorf("%s: missing implementation", d.Name)
		}
		if strings.ContainsAny(d.Name, "$_ ") {
			t.Errorf("%s: unexpected character in name", d.Name)
		}
	}
}
