package header

// Param is a single named header parameter.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered list of header parameters with unique names.
// The list order is the serialization order. Lookup is byte-exact: "Charset"
// and "charset" are distinct names.
//
// Mutating methods return the resulting list, so calls chain:
//
//	ps := header.Params{}.Set("charset", "utf-8").Set("boundary", "x42")
type Params []Param

// Get returns the value associated with name.
// The second result reports whether the parameter is present.
func (ps Params) Get(name string) (string, bool) {
	for i := range ps {
		if ps[i].Name == name {
			return ps[i].Value, true
		}
	}
	return "", false
}

// Has checks whether a parameter with the given name is in the list.
func (ps Params) Has(name string) bool {
	_, ok := ps.Get(name)
	return ok
}

// Set sets the parameter to value. An existing parameter is updated in place
// and keeps its position; a new one is appended.
func (ps Params) Set(name, value string) Params {
	for i := range ps {
		if ps[i].Name == name {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Param{name, value})
}

// Del removes the parameter with the given name, keeping the order of the
// rest. Removing an absent name is a no-op.
func (ps Params) Del(name string) Params {
	for i := range ps {
		if ps[i].Name == name {
			return append(ps[:i], ps[i+1:]...)
		}
	}
	return ps
}

// Len returns the number of parameters in the list.
func (ps Params) Len() int { return len(ps) }

// Clone returns a copy of the list.
func (ps Params) Clone() Params {
	if ps == nil {
		return nil
	}
	ps2 := make(Params, len(ps))
	copy(ps2, ps)
	return ps2
}

// Equal reports whether two lists hold the same parameters in the same order.
func (ps Params) Equal(other Params) bool {
	if len(ps) != len(other) {
		return false
	}
	for i := range ps {
		if ps[i] != other[i] {
			return false
		}
	}
	return true
}
