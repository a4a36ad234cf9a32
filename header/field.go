package header

//go:generate go tool errtrace -w .

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"

	"github.com/wireproto/headerline/internal/errorutil"
	"github.com/wireproto/headerline/internal/grammar"
	"github.com/wireproto/headerline/internal/ioutil"
	"github.com/wireproto/headerline/internal/util"
)

// Field is a single protocol header field: a name, a value and an ordered
// set of named parameters.
//
// The zero Field is invalid (empty name); obtain a Field through [New] so the
// name invariant holds. Fields are not safe for concurrent mutation;
// concurrent reads without a writer are safe.
type Field struct {
	name   Name
	value  string
	params Params
}

// New creates a Field with the given name, value and initial parameters.
//
// Every parameter name must be non-blank; a violation is reported with
// [ErrInvalidArgument] before any state is applied. The name is trimmed and
// validated as by [Field.SetName]. On any error no Field is produced.
func New(name, value string, params ...Param) (*Field, error) {
	for _, p := range params {
		if util.TrimSP(p.Name) == "" {
			return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("blank parameter name %q", p.Name))
		}
	}

	f := &Field{}
	if err := f.SetName(name); err != nil {
		return nil, errtrace.Wrap(err)
	}
	f.SetValue(value)
	for _, p := range params {
		f.SetParam(p.Name, p.Value)
	}
	return f, nil
}

// Name returns the stored field name. It is always trimmed and token-valid.
func (f *Field) Name() Name { return f.name }

// SetName trims name and replaces the stored field name with it.
// If the trimmed name is not a valid token, SetName returns
// [ErrInvalidArgument] identifying the offending string and leaves the
// previously stored name unchanged.
func (f *Field) SetName(name string) error {
	name = util.TrimSP(name)
	if !grammar.IsToken(name) {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError("header name %q", name))
	}
	f.name = Name(name)
	return nil
}

// Value returns the stored field value.
func (f *Field) Value() string { return f.value }

// SetValue stores value unconditionally. The empty string is allowed.
// The value is not validated or escaped.
func (f *Field) SetValue(value string) { f.value = value }

// SetParam inserts or updates the parameter with the given name.
// An existing parameter keeps its serialization position. Neither name nor
// value is validated; callers must pre-escape content that could be read as
// a delimiter.
func (f *Field) SetParam(name, value string) { f.params = f.params.Set(name, value) }

// Param returns the value of the named parameter.
// The second result reports whether the parameter is present.
func (f *Field) Param(name string) (string, bool) { return f.params.Get(name) }

// HasParam checks whether the named parameter is present.
func (f *Field) HasParam(name string) bool { return f.params.Has(name) }

// DelParam removes the named parameter. Removing an absent parameter is a
// no-op, not an error.
func (f *Field) DelParam(name string) { f.params = f.params.Del(name) }

// Params returns a snapshot of all parameters in their maintained order.
func (f *Field) Params() Params { return f.params.Clone() }

// ParamCount returns the number of parameters currently set.
func (f *Field) ParamCount() int { return f.params.Len() }

// RenderTo writes the wire-format line to w and returns the number of bytes
// written.
func (f *Field) RenderTo(w io.Writer) (num int, err error) {
	if f == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(string(f.name))
	cw.WriteString(": ")
	cw.Call(f.renderValueTo)
	return errtrace.Wrap2(cw.Result())
}

func (f *Field) renderValueTo(w io.Writer) (num int, err error) {
	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	cw.WriteString(f.value)
	for i := range f.params {
		cw.WriteString("; ")
		cw.WriteString(f.params[i].Name)
		cw.WriteString("=")
		cw.WriteString(f.params[i].Value)
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the wire-format line
//
//	<name>: <value>[; <param>=<value>]...
//
// with no trailing line terminator. The output is deterministic: two calls
// without an intervening mutation return identical strings.
func (f *Field) Render() string {
	if f == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	f.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// String returns the same wire-format line as [Field.Render].
func (f *Field) String() string { return f.Render() }

// RenderValue returns the value and parameters without the name prefix.
func (f *Field) RenderValue() string {
	if f == nil {
		return ""
	}

	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	f.renderValueTo(sb) //nolint:errcheck
	return sb.String()
}

func (f *Field) Format(fs fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(fs, f.String())
		return
	case 'q':
		fmt.Fprint(fs, strconv.Quote(f.String()))
		return
	default:
		type hideMethods Field
		type Field hideMethods
		fmt.Fprintf(fs, fmt.FormatString(fs, verb), (*Field)(f))
		return
	}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}

	f2 := *f
	f2.params = f.params.Clone()
	return &f2
}

// Equal compares this field with another for equality.
// Names compare case-insensitively; values and parameters compare byte-exact,
// parameters in order, since order is part of the serialization contract.
func (f *Field) Equal(val any) bool {
	var other *Field
	switch v := val.(type) {
	case *Field:
		other = v
	case Field:
		other = &v
	default:
		return false
	}

	if f == other {
		return true
	} else if f == nil || other == nil {
		return false
	}

	return f.name.Equal(other.name) &&
		f.value == other.value &&
		f.params.Equal(other.params)
}

// IsValid reports whether the field holds a valid name.
// Fields built through [New] are always valid; only a zero Field is not.
func (f *Field) IsValid() bool { return f != nil && f.name.IsValid() }

type fieldData struct {
	Name   string      `json:"name"`
	Value  string      `json:"value"`
	Params [][2]string `json:"params,omitempty"`
}

// MarshalJSON encodes the field as {"name","value","params"} with params as
// an ordered array of name/value pairs.
func (f *Field) MarshalJSON() ([]byte, error) {
	var fd *fieldData
	if f != nil {
		fd = &fieldData{Name: string(f.name), Value: f.value}
		for i := range f.params {
			fd.Params = append(fd.Params, [2]string{f.params[i].Name, f.params[i].Value})
		}
	}
	return errtrace.Wrap2(json.Marshal(fd))
}

var errNotFieldJSON errorutil.Error = "not a header field JSON"

// UnmarshalJSON decodes a field from the structured form produced by
// [Field.MarshalJSON]. Decoding goes through [New], so an invalid name or a
// blank parameter name fails with [ErrInvalidArgument] and leaves f
// unchanged.
func (f *Field) UnmarshalJSON(data []byte) error {
	var fd *fieldData
	if err := json.Unmarshal(data, &fd); err != nil {
		return errtrace.Wrap(err)
	}
	if fd == nil {
		return errtrace.Wrap(errNotFieldJSON)
	}

	params := make([]Param, 0, len(fd.Params))
	for _, kv := range fd.Params {
		params = append(params, Param{kv[0], kv[1]})
	}

	f2, err := New(fd.Name, fd.Value, params...)
	if err != nil {
		return errtrace.Wrap(fmt.Errorf("decode header field %q: %w", fd.Name, err))
	}
	*f = *f2
	return nil
}
