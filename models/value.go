package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the shape held by a Value.
type ValueKind int

const (
	ValueBool ValueKind = iota
	ValueString
	ValueInt
	ValueDouble
	ValueObject
	ValueArray
)

// Member is one key/value pair of an object Value. Members keep the order
// they appeared in on the wire, which is what lets dynamically-keyed maps
// survive a round trip.
type Member struct {
	Key   string
	Value Value
}

// Value is a self-describing JSON value used where the platform nests a
// dynamically-shaped document inside an otherwise well-typed envelope (the
// subscribed feed's activity items, recommended users and username map).
// Shapes are matched in a fixed priority order (bool, string, int, double,
// object, array): an integer must not be captured as a lossy double, and a
// numeric string must not be misread as a number. The union has no shape for
// null: a null member or item is dropped from its container, and a value
// that is itself null fails the decode.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Str     string
	Int     int64
	Double  float64
	Members []Member
	Items   []Value
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, isNull, err := readValue(dec)
	if err != nil {
		return err
	}
	if isNull {
		// the union has no shape for a bare null
		return fmt.Errorf("json value: unsupported null")
	}
	*v = parsed
	return nil
}

// readValue reads one value off the token stream. A null reports isNull so
// the enclosing container can drop the member or item; the platform litters
// its payloads with nulls and one must not abort a whole tree.
func readValue(dec *json.Decoder) (v Value, isNull bool, err error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, false, err
	}
	switch t := tok.(type) {
	case nil:
		return Value{}, true, nil
	case bool:
		return Value{Kind: ValueBool, Bool: t}, false, nil
	case string:
		return Value{Kind: ValueString, Str: t}, false, nil
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return Value{Kind: ValueInt, Int: i}, false, nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, false, fmt.Errorf("json value: bad number %q", t.String())
		}
		return Value{Kind: ValueDouble, Double: f}, false, nil
	case json.Delim:
		switch t {
		case '{':
			v := Value{Kind: ValueObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, false, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, false, fmt.Errorf("json value: object key %v", keyTok)
				}
				child, childNull, err := readValue(dec)
				if err != nil {
					return Value{}, false, err
				}
				if childNull {
					continue
				}
				v.Members = append(v.Members, Member{Key: key, Value: child})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, false, err
			}
			return v, false, nil
		case '[':
			v := Value{Kind: ValueArray}
			for dec.More() {
				child, childNull, err := readValue(dec)
				if err != nil {
					return Value{}, false, err
				}
				if childNull {
					continue
				}
				v.Items = append(v.Items, child)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, false, err
			}
			return v, false, nil
		}
	}
	return Value{}, false, fmt.Errorf("json value: unsupported token %v", tok)
}

// MarshalJSON re-serializes the value, preserving member order and integer
// exactness, so sub-trees can be fed back through a strongly-typed decode.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case ValueBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case ValueString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case ValueInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case ValueDouble:
		b, err := json.Marshal(v.Double)
		if err != nil {
			return err
		}
		buf.Write(b)
	case ValueObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case ValueArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("json value: unknown kind %d", v.Kind)
	}
	return nil
}

// Member returns the value under key when v is an object.
func (v Value) Member(key string) (Value, bool) {
	if v.Kind != ValueObject {
		return Value{}, false
	}
	for _, m := range v.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}
