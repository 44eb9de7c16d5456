package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON error envelope used by the API.
// The contact endpoint returns {"error": "..."} bodies on 4xx/5xx.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the acknowledgement envelope for accepted submissions.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
//
// Invalid status codes (outside 100-599) are clamped to 500 Internal Server Error
// to prevent undefined behavior in net/http. Encoding errors after headers are
// sent cannot be reported to the client and are silently dropped; handlers only
// encode plain structs here.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes a {"error": message} body with the given status.
func JSONError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// JSONSuccess writes a {"success": true, "message": message} body with HTTP 200.
func JSONSuccess(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: message})
}

// BindJSON decodes the request body as JSON into v.
//
// It returns a user-friendly error if the body is empty or malformed. Unknown
// fields are tolerated; browser clients send what they send. The error messages
// are safe to return to clients.
func BindJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	// ContentLength semantics:
	//   0  = explicitly empty body (Content-Length: 0) → reject early
	//  -1  = chunked/unknown length → must attempt decode; empty chunked body
	//        will fail with EOF, converted by parseJSONError
	//  >0  = known content length → proceed to decode
	if r.ContentLength == 0 {
		return errors.New("request body is empty")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return parseJSONError(err)
	}

	// Check for extraneous data after the JSON object
	if dec.More() {
		return errors.New("request body contains multiple JSON values")
	}

	return nil
}

// parseJSONError converts json decoding errors into user-friendly messages.
func parseJSONError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("invalid value for field %q: expected %s", typeErr.Field, typeErr.Type.String())
	}

	// Body too large (from http.MaxBytesReader)
	if strings.Contains(err.Error(), "request body too large") {
		return errors.New("request body too large")
	}

	return errors.New("invalid JSON in request body")
}
