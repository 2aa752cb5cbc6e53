package sigsock

import (
	"encoding/json"
)

// Serializer converts messages to and from the frames written to the Transport.
type Serializer interface {
	Encode(*Message) ([]byte, error)
	Decode([]byte) (*Message, error)
}

// JSONSerializer encodes a Message as a flat JSON object with a "type" key.
type JSONSerializer struct{}

func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, ErrMissingType
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *JSONSerializer) Decode(data []byte) (*Message, error) {
	var msg Message
	err := json.Unmarshal(data, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
