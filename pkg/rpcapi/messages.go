// Package rpcapi defines the RPC surface described in §6: request/response
// message types and the gRPC service wiring that carries them. No protobuf
// schema survives for this service, so messages are plain Go structs
// carried over gRPC using the JSON Codec defined in codec.go rather than
// generated protobuf marshaling.
package rpcapi

// HandlerState is the per-directory result of a Register/Start/Stop
// operation.
type HandlerState struct {
	IsAlive bool   `json:"is_alive"`
	Message string `json:"message"`
}

// HandlerSummary is the read-only status of a single registered handler.
type HandlerSummary struct {
	DirectoryPath string `json:"directory_path"`
	IsAlive       bool   `json:"is_alive"`
	ConfigPath    string `json:"config_path"`
	AutoStart     bool   `json:"auto_start"`
	Description   string `json:"description"`
}

// RegisterRequest carries the arguments to Register(dir, config_path).
type RegisterRequest struct {
	DirectoryPath string `json:"directory_path"`
	ConfigPath    string `json:"config_path"`
}

// RegisterResponse carries a single HandlerState for the newly registered
// directory.
type RegisterResponse struct {
	State HandlerState `json:"state"`
}

// GetDirectoryStatusRequest carries an optional directory path; empty means
// "every registered directory".
type GetDirectoryStatusRequest struct {
	DirectoryPath string `json:"directory_path"`
}

// GetDirectoryStatusResponse carries the requested HandlerSummary set, keyed
// by directory path.
type GetDirectoryStatusResponse struct {
	Summaries map[string]HandlerSummary `json:"summaries"`
}

// StartHandlerRequest carries an optional directory path; empty means
// "every registered directory" (StartAll).
type StartHandlerRequest struct {
	DirectoryPath string `json:"directory_path"`
}

// StartHandlerResponse carries the per-directory HandlerState produced by
// the start attempt(s).
type StartHandlerResponse struct {
	States map[string]HandlerState `json:"states"`
}

// StopHandlerRequest carries an optional directory path (empty means every
// directory) and whether matched entries should be removed after stopping.
type StopHandlerRequest struct {
	DirectoryPath string `json:"directory_path"`
	Remove        bool   `json:"remove"`
}

// StopHandlerResponse carries the per-directory HandlerState produced by the
// stop attempt(s).
type StopHandlerResponse struct {
	States map[string]HandlerState `json:"states"`
}

// ModifyHandlerRequest carries an optional directory path (empty means every
// entry) and the optional patch fields to apply.
type ModifyHandlerRequest struct {
	DirectoryPath string  `json:"directory_path"`
	AutoStart     *bool   `json:"auto_start,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// ModifyHandlerResponse is empty; its presence as a distinct type keeps the
// RPC surface uniform and leaves room for future fields.
type ModifyHandlerResponse struct{}

// TraceHandlerRequest carries an optional directory path; empty means
// "trace every directory".
type TraceHandlerRequest struct {
	DirectoryPath string `json:"directory_path"`
}

// TraceMessage is the server-streamed TraceMessage described in §3: a nil
// ActionName marks "this pipeline invocation's stream ended".
type TraceMessage struct {
	DirectoryPath string  `json:"directory_path"`
	ActionName    *string `json:"action_name,omitempty"`
	Text          string  `json:"text"`
}
