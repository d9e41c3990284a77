// Package extcrypto provides identifier and digest functions. Register them via
// goxq.WithFunctions or via the top-level ext.WithCrypto() helper.
//
// Security note: MD5, SHA-1 and xxh64 are provided for fingerprinting only
// and should NOT be used for cryptographic security purposes.
package extcrypto

import (
	"context"
	"crypto/hmac"
	"crypto/md5"  //nolint:gosec // intentional: provided for non-security fingerprinting
	"crypto/sha1" //nolint:gosec // intentional
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/sandrolain/goxq/pkg/ext/extutil"
	"github.com/sandrolain/goxq/pkg/functions"
	"github.com/sandrolain/goxq/pkg/types"
	"github.com/sandrolain/goxq/pkg/value"
)

// All returns all extended cryptographic function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		UUID(),
		Hash(),
		HMAC(),
	}
}

// UUID returns the definition for random-uuid().
// Generates a random UUID v4 string on every evaluation.
func UUID() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:             "random-uuid",
		Ret:              types.SeqString,
		Nondeterministic: true,
		Fn: func(context.Context, ...value.Value) (value.Value, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return nil, types.Errorf(types.ErrInternal, -1, "random-uuid: %v", err).WithCause(err)
			}
			return value.Str(id.String()), nil
		},
	}
}

// Hash returns the definition for hash($s, $algorithm).
// Supported algorithms: "md5", "sha1", "sha256", "sha384", "sha512" and "xxh64".
// Returns a lowercase hex-encoded digest.
func Hash() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "hash",
		MinArgs: 2,
		MaxArgs: 2,
		Ret:     types.SeqString,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			s, err := extutil.String("hash", args[0])
			if err != nil {
				return nil, err
			}
			algorithm, err := extutil.String("hash", args[1])
			if err != nil {
				return nil, err
			}
			h, err := newHasher("hash", strings.ToLower(algorithm))
			if err != nil {
				return nil, err
			}
			h.Write([]byte(s))
			return value.Str(hex.EncodeToString(h.Sum(nil))), nil
		},
	}
}

// HMAC returns the definition for hmac($s, $key, $algorithm).
// Returns a lowercase hex-encoded HMAC.
// Supported algorithms: "md5", "sha1", "sha256", "sha384" and "sha512".
func HMAC() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:    "hmac",
		MinArgs: 3,
		MaxArgs: 3,
		Ret:     types.SeqString,
		Fn: func(_ context.Context, args ...value.Value) (value.Value, error) {
			var strs [3]string
			for i := range strs {
				s, err := extutil.String("hmac", args[i])
				if err != nil {
					return nil, err
				}
				strs[i] = s
			}
			algorithm := strings.ToLower(strs[2])
			if algorithm == "xxh64" {
				return nil, unsupported("hmac", strs[2])
			}
			if _, err := newHasher("hmac", algorithm); err != nil {
				return nil, err
			}
			mac := hmac.New(func() hash.Hash {
				h, _ := newHasher("hmac", algorithm)
				return h
			}, []byte(strs[1]))
			mac.Write([]byte(strs[0]))
			return value.Str(hex.EncodeToString(mac.Sum(nil))), nil
		},
	}
}

// ── helpers ────────────────────────────────────────────────────────────────

func newHasher(fn, algorithm string) (hash.Hash, error) {
	switch algorithm {
	case "md5":
		return md5.New(), nil //nolint:gosec
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	case "sha384":
		return sha512.New384(), nil
	case "sha512":
		return sha512.New(), nil
	case "xxh64":
		return &xxh64{d: xxhash.New()}, nil
	default:
		return nil, unsupported(fn, algorithm)
	}
}

func unsupported(fn, algorithm string) error {
	return types.Errorf(types.ErrInvalidArgument, -1, "%s: unsupported algorithm %q", fn, algorithm)
}

// xxh64 renders the 64-bit xxHash digest big-endian.
type xxh64 struct {
	d *xxhash.Digest
}

func (x *xxh64) Write(p []byte) (int, error) { return x.d.Write(p) }
func (x *xxh64) Reset()                      { x.d.Reset() }
func (x *xxh64) Size() int                   { return 8 }
func (x *xxh64) BlockSize() int              { return 32 }

func (x *xxh64) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint64(b, x.d.Sum64())
}
