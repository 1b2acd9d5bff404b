package models

import (
	"encoding/json"
	"fmt"
)

// FlexString absorbs fields the platform serves sometimes as a JSON string
// and sometimes as a bare number (ids, urls, the -1 status sentinel). A
// string decode is attempted first so numeric strings stay strings; on
// failure the number is decoded and stringified.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return fmt.Errorf("flex string: cannot decode %s", string(data))
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

func (f FlexString) String() string { return string(f) }

// IntBool decodes the platform's 0/1 flags, tolerating the occasional
// literal true/false.
type IntBool bool

func (b *IntBool) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*b = n != 0
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = IntBool(v)
		return nil
	}
	return fmt.Errorf("int bool: cannot decode %s", string(data))
}

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b IntBool) Bool() bool { return bool(b) }
