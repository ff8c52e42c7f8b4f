package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference to another backend document. The backend sends either the
// bare identifier ("c1") or the populated document ({"_id":"c1","name":"Pens"});
// both decode into a Ref, Name is empty for the bare form.
type Ref struct {
	ID   string
	Name string
}

func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// IsZero reports whether the reference points nowhere.
func (r Ref) IsZero() bool {
	return r.ID == ""
}

// MarshalJSON always writes the bare identifier, which is what the backend
// accepts on writes.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	case '{':
		var doc struct {
			ID   string `json:"_id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*r = Ref{ID: doc.ID, Name: doc.Name}
		return nil
	default:
		return fmt.Errorf("reference must be a string or an object, got %s", data)
	}
}
