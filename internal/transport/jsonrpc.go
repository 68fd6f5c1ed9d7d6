package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	// ErrApplication carries a domain error; its code is in the error data.
	ErrApplication = -32000
)

var (
	// ErrMalformed is returned by ParseRequest when the body is not JSON.
	ErrMalformed = errors.New("parse error")
	// ErrInvalidRequest is returned by ParseRequest for JSON that is not a
	// JSON-RPC 2.0 request object.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownMethod is wrapped by handlers that do not serve a method.
	ErrUnknownMethod = errors.New("method not found")
	// ErrBadParams is wrapped by handlers whose params do not decode.
	ErrBadParams = errors.New("invalid params")
)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest parses and validates a JSON-RPC request payload. The returned
// request keeps its id even when validation fails, so the error reply can
// echo it.
func ParseRequest(body io.Reader) (Request, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		// Valid JSON of the wrong shape, such as an array or a string.
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.JSONRPC != "2.0" {
		return req, fmt.Errorf("%w: jsonrpc must be \"2.0\"", ErrInvalidRequest)
	}
	if req.Method == "" {
		return req, fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}
	return req, nil
}

// errorCode picks the JSON-RPC code for an error from ParseRequest or a handler.
func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrMalformed):
		return ErrParseCode
	case errors.Is(err, ErrInvalidRequest):
		return ErrInvalidReq
	case errors.Is(err, ErrUnknownMethod):
		return ErrMethodNotFound
	case errors.Is(err, ErrBadParams):
		return ErrInvalidParams
	default:
		return ErrInternal
	}
}

// WriteResult writes a JSON-RPC success response.
func WriteResult(w http.ResponseWriter, id any, result any) {
	writeJSON(w, http.StatusOK, Response{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	})
}

// WriteError writes a JSON-RPC error response.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	writeJSON(w, http.StatusOK, Response{
		JSONRPC: "2.0",
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
