package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// looseID reads an id stored either as a JSON string or as a number. Older
// documents used millisecond timestamps as numeric ids.
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*id = ""
	case json.Number:
		*id = looseID(val.String())
	case string:
		*id = looseID(val)
	default:
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	return nil
}
