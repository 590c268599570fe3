package schema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// jsonField is the on-disk shape of a Field, matching the manifest JSON
// layout described in spec.md §6 ("Manifest JSON shapes"). Ordered map
// iteration preserves the struct-field order contract from §4.1 when
// round-tripped.
type jsonField struct {
	Dtype         DType                 `json:"dtype,omitempty"`
	Fields        *jsonFieldMap         `json:"fields,omitempty"`
	RepeatedField *jsonField            `json:"repeated_field,omitempty"`
	Signal        *jsonSignalDescriptor `json:"signal,omitempty"`
	DerivedFrom   []string              `json:"derived_from,omitempty"`
}

type jsonSignalDescriptor struct {
	Name   string         `json:"name"`
	Key    string         `json:"key"`
	Params map[string]any `json:"params,omitempty"`
}

// jsonFieldMap preserves field order as a slice of name/value pairs rather
// than relying on Go's (unordered-on-marshal) map type.
type jsonFieldMap struct {
	names  []string
	fields map[string]*jsonField
}

func (m *jsonFieldMap) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, name := range m.names {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.fields[name])
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	buf = append(buf, '}')
	return buf, nil
}

func (m *jsonFieldMap) UnmarshalJSON(data []byte) error {
	// A plain map[string]T loses declaration order; decode the token
	// stream directly to preserve the struct-field order contract.
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return err
	}
	m.names = nil
	m.fields = map[string]*jsonField{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var f jsonField
		if err := dec.Decode(&f); err != nil {
			return err
		}
		m.names = append(m.names, key)
		m.fields[key] = &f
	}
	return nil
}

func toJSONField(f *Field) *jsonField {
	if f == nil {
		return nil
	}
	jf := &jsonField{Dtype: f.Dtype, DerivedFrom: []string(f.DerivedFrom)}
	if f.Signal != nil {
		jf.Signal = &jsonSignalDescriptor{Name: f.Signal.Name, Key: f.Signal.Key, Params: f.Signal.Params}
	}
	if f.Fields != nil {
		jfm := &jsonFieldMap{fields: map[string]*jsonField{}}
		for pair := f.Fields.Oldest(); pair != nil; pair = pair.Next() {
			jfm.names = append(jfm.names, pair.Key)
			jfm.fields[pair.Key] = toJSONField(pair.Value)
		}
		jf.Fields = jfm
	}
	if f.RepeatedField != nil {
		jf.RepeatedField = toJSONField(f.RepeatedField)
	}
	return jf
}

func fromJSONField(jf *jsonField) *Field {
	if jf == nil {
		return nil
	}
	f := &Field{Dtype: jf.Dtype, DerivedFrom: Path(jf.DerivedFrom)}
	if jf.Signal != nil {
		f.Signal = &SignalDescriptor{Name: jf.Signal.Name, Key: jf.Signal.Key, Params: jf.Signal.Params}
	}
	if jf.Fields != nil {
		f.Fields = NewFieldMap()
		for _, name := range jf.Fields.names {
			f.Fields.Set(name, fromJSONField(jf.Fields.fields[name]))
		}
	}
	if jf.RepeatedField != nil {
		f.RepeatedField = fromJSONField(jf.RepeatedField)
	}
	return f
}

// MarshalJSON implements json.Marshaler for Field.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSONField(f))
}

// UnmarshalJSON implements json.Unmarshaler for Field.
func (f *Field) UnmarshalJSON(data []byte) error {
	var jf jsonField
	if err := json.Unmarshal(data, &jf); err != nil {
		return err
	}
	*f = *fromJSONField(&jf)
	return nil
}

// MarshalJSON implements json.Marshaler for Schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	jfm := &jsonFieldMap{fields: map[string]*jsonField{}}
	for pair := s.Fields.Oldest(); pair != nil; pair = pair.Next() {
		jfm.names = append(jfm.names, pair.Key)
		jfm.fields[pair.Key] = toJSONField(pair.Value)
	}
	return json.Marshal(struct {
		Fields *jsonFieldMap `json:"fields"`
	}{jfm})
}

// UnmarshalJSON implements json.Unmarshaler for Schema.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Fields *jsonFieldMap `json:"fields"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	s.Fields = NewFieldMap()
	if wrapper.Fields == nil {
		return nil
	}
	for _, name := range wrapper.Fields.names {
		s.Fields.Set(name, fromJSONField(wrapper.Fields.fields[name]))
	}
	return nil
}
