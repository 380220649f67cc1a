package rpcapi

import "encoding/json"

// jsonCodec implements google.golang.org/grpc/encoding.Codec, carrying
// rpcapi's plain Go structs as JSON on the wire in place of generated
// protobuf marshaling (see SPEC_FULL.md's RPC transport decision).
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return "json"
}

// Codec is the shared jsonCodec instance; cmd/foldend installs it on the
// daemon's gRPC server via grpc.ForceServerCodec.
var Codec = jsonCodec{}
