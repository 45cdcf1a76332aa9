package beacon

import "encoding/json"

// JSONCoder serializes outgoing messages and decodes response bodies.
type JSONCoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// DefaultJSONCoder is backed by encoding/json. Decode failures are returned
// as *ParseError.
type DefaultJSONCoder struct{}

func (DefaultJSONCoder) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (DefaultJSONCoder) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

type onlineUserCountData struct {
	Online int64 `json:"online"`
}

type usersInChannelData struct {
	Users []string `json:"users"`
}

type errorEnvelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
