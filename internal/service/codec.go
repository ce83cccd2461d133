package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec serializes plain Go request and response structs with
// encoding/json. It replaces Connect's protobuf-only "json" codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
