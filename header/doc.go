// Package header provides a structured model of a single protocol header
// field: a name, a scalar value and an ordered set of named parameters, as
// used to compose message headers of email-style protocols.
//
// # Field
//
// The central type is [Field]. It is created through [New], which validates
// the field name and applies the initial parameters atomically:
//
//	f, err := header.New("Content-Type", "text/plain", header.Param{"charset", "utf-8"})
//	if err != nil {
//		// name was not a valid token, or a parameter name was blank
//	}
//	line := f.Render() // "Content-Type: text/plain; charset=utf-8"
//
// The name invariant is enforced by the type: the name field is reachable only
// through [New] and [Field.SetName], both of which reject anything that is not
// a token after trimming. Values and parameters are never validated or
// escaped; callers that need delimiter characters (':', ';', '=', line
// terminators) inside a value must pre-encode them.
//
// # Names
//
// A field name is a non-empty sequence of token characters:
//
//	! # $ % & ' * + - 0-9 A-Z ^ _ ` a-z | ~
//
// Use [Valid] to test a candidate name; it trims surrounding whitespace before
// testing, mirroring what [Field.SetName] stores.
//
// # Parameters
//
// Parameters keep their insertion order, which is the serialization order.
// Re-setting an existing parameter updates its value in place and keeps its
// original position. [Params] is an ordered list with a chainable map-like
// surface:
//
//	ps := header.Params{}.Set("charset", "utf-8").Set("boundary", "x42")
//
// # Rendering
//
// [Field.Render] and [Field.String] produce the wire-format line
//
//	<name>: <value>[; <param>=<value>]...
//
// with no trailing line terminator; the enclosing protocol appends its own
// delimiter. [Field.RenderTo] streams the same bytes to an [io.Writer].
//
// # JSON
//
// Fields marshal to and from a structured JSON object
// {"name", "value", "params"}. Unmarshaling goes through [New], so the name
// invariant holds for decoded fields as well. Parsing raw header text is out
// of scope for this package.
package header
