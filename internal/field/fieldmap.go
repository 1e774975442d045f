package field

import "github.com/scigolib/lms/internal/lmserrors"

// FieldMap is an insertion-ordered name -> Field map, mirroring the
// original's LMS_FieldMap (attributes and decoded tag parameters both
// preserve declaration order on the wire).
type FieldMap struct {
	order  []string
	fields map[string]*Field
}

// NewFieldMap builds a FieldMap from fields in the given order.
func NewFieldMap(fields ...*Field) *FieldMap {
	fm := &FieldMap{fields: make(map[string]*Field, len(fields))}
	for _, f := range fields {
		fm.order = append(fm.order, f.Name())
		fm.fields[f.Name()] = f
	}
	return fm
}

// FromStringDict builds a FieldMap from a name->string-form-value map and
// the defining ValueDefinitions, converting each string through
// ConvertStringToType. Used when a tag or attribute is parsed from its
// textual form (e.g. `key="value"` pairs in a decoded tag).
func FromStringDict(data map[string]string, defs []ValueDefinition) (*FieldMap, error) {
	fm := &FieldMap{fields: make(map[string]*Field, len(defs))}
	for _, def := range defs {
		raw, ok := data[def.Name]
		if !ok {
			return nil, lmserrors.New(lmserrors.FieldNotFound, "no value supplied for field '"+def.Name+"'")
		}
		value, err := ConvertStringToType(raw, def.Datatype)
		if err != nil {
			return nil, err
		}
		f, err := NewField(value, def)
		if err != nil {
			return nil, err
		}
		fm.order = append(fm.order, def.Name)
		fm.fields[def.Name] = f
	}
	return fm, nil
}

// Get returns the field named name.
func (fm *FieldMap) Get(name string) (*Field, error) {
	f, ok := fm.fields[name]
	if !ok {
		return nil, lmserrors.New(lmserrors.FieldNotFound, "no field named '"+name+"'")
	}
	return f, nil
}

// Has reports whether a field named name exists.
func (fm *FieldMap) Has(name string) bool {
	_, ok := fm.fields[name]
	return ok
}

// Set validates and assigns the value of an existing field.
func (fm *FieldMap) Set(name string, value Value) error {
	f, err := fm.Get(name)
	if err != nil {
		return err
	}
	return f.SetValue(value)
}

// Add appends a new field, preserving insertion order. It replaces any
// existing field with the same name in place.
func (fm *FieldMap) Add(f *Field) {
	if _, exists := fm.fields[f.Name()]; !exists {
		fm.order = append(fm.order, f.Name())
	}
	fm.fields[f.Name()] = f
}

// Fields returns the fields in declaration order.
func (fm *FieldMap) Fields() []*Field {
	out := make([]*Field, len(fm.order))
	for i, name := range fm.order {
		out[i] = fm.fields[name]
	}
	return out
}

// Names returns field names in declaration order.
func (fm *FieldMap) Names() []string {
	out := make([]string, len(fm.order))
	copy(out, fm.order)
	return out
}

// Len returns the number of fields.
func (fm *FieldMap) Len() int { return len(fm.order) }

// ToMap flattens the FieldMap into a plain name -> value map. Order is not
// preserved by the Go map type; callers that need order use Fields/Names.
func (fm *FieldMap) ToMap() map[string]Value {
	out := make(map[string]Value, len(fm.order))
	for name, f := range fm.fields {
		out[name] = f.Value()
	}
	return out
}
