package sigsock

import (
	"encoding/json"
	"errors"
)

// ErrMissingType is returned when a message has no "type" tag.
var ErrMissingType = errors.New("sigsock: message has no type")

// Message is a message sent or received via the Transport. On the wire it is a single JSON object whose "type"
// key holds the Type tag and whose other keys are the Fields.
type Message struct {
	Type   string
	Fields map[string]any

	// raw holds the bytes a message was decoded from. SetField drops it.
	raw []byte
}

// NewMessage returns a message with the given type tag and fields. fields may be nil.
func NewMessage(msgType string, fields map[string]any) *Message {
	return &Message{Type: msgType, Fields: fields}
}

// Field returns the value of the given field, if present.
func (m *Message) Field(key string) (any, bool) {
	v, ok := m.Fields[key]
	return v, ok
}

// String returns the given field if it is a string, otherwise "".
func (m *Message) String(key string) string {
	s, _ := m.Fields[key].(string)
	return s
}

// SetField sets a field. After it, Decode reflects the changed fields instead of the received bytes.
func (m *Message) SetField(key string, value any) {
	if m.Fields == nil {
		m.Fields = make(map[string]any)
	}
	m.Fields[key] = value
	m.raw = nil
}

// Decode unmarshals the whole message, type tag included, into v. For a received message that has not been
// changed through SetField it reads the bytes as they came off the wire, so integers keep full precision;
// writing to Fields directly is not seen by Decode.
func (m *Message) Decode(v any) error {
	data := m.raw
	if data == nil {
		var err error
		data, err = json.Marshal(m)
		if err != nil {
			return err
		}
	}
	return json.Unmarshal(data, v)
}

func (m *Message) MarshalJSON() ([]byte, error) {
	if m.Type == "" {
		return nil, ErrMissingType
	}
	obj := make(map[string]any, len(m.Fields)+1)
	for k, v := range m.Fields {
		obj[k] = v
	}
	obj["type"] = m.Type
	return json.Marshal(obj)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj == nil {
		return errors.New("sigsock: message is not a JSON object")
	}
	msgType, _ := obj["type"].(string)
	if msgType == "" {
		return ErrMissingType
	}
	delete(obj, "type")

	m.Type = msgType
	m.Fields = obj
	m.raw = append([]byte(nil), data...)
	return nil
}
