// Package grammar holds the character-class predicates shared by the header
// model. The token class matches the field-name grammar of RFC 5322 / RFC 7230
// style protocols: printable ASCII without whitespace, colon and the other
// structural punctuation.
package grammar

// tokenTable marks the bytes allowed in a header field name:
// '!', '#', '$', '%', '&', ''', '*', '+', '-', DIGIT, ALPHA,
// '^', '_', '`', '|', '~'.
var tokenTable = [256]bool{}

func init() {
	for _, c := range []byte("!#$%&'*+-^_`|~") {
		tokenTable[c] = true
	}
	for c := byte('0'); c <= '9'; c++ {
		tokenTable[c] = true
	}
	for c := byte('A'); c <= 'Z'; c++ {
		tokenTable[c] = true
	}
	for c := byte('a'); c <= 'z'; c++ {
		tokenTable[c] = true
	}
}

// IsTokenChar reports whether c belongs to the token character class.
func IsTokenChar(c byte) bool { return tokenTable[c] }

// IsToken reports whether s is a non-empty sequence of token characters.
func IsToken[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !tokenTable[s[i]] {
			return false
		}
	}
	return true
}
