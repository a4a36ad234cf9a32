package header

import (
	"github.com/wireproto/headerline/internal/grammar"
	"github.com/wireproto/headerline/internal/util"
)

// Name represents a header field name.
// A Name held by a [Field] is always trimmed and token-valid.
type Name string

// Valid reports whether s, after trimming leading and trailing whitespace,
// is a syntactically valid header field name: non-empty and made only of
// token characters.
func Valid[T ~string](s T) bool { return grammar.IsToken(util.TrimSP(string(s))) }

// IsValid checks whether the Name is syntactically valid as stored,
// without trimming.
func (n Name) IsValid() bool { return grammar.IsToken(n) }

// Equal compares this Name with another for equality.
// Comparison is case-insensitive, matching the protocol-level equivalence of
// header names.
func (n Name) Equal(val any) bool {
	var other Name
	switch v := val.(type) {
	case Name:
		other = v
	case *Name:
		if v == nil {
			return false
		}
		other = *v
	case string:
		other = Name(v)
	default:
		return false
	}
	return util.EqFold(n, other)
}
