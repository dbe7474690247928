package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is an error that renders itself as the response body.
type Error interface {
	error
	StatusCode() int
	Encode(w io.Writer) error
}

// JsonError is written as {"code": <status>, "error": <message>}.
type JsonError struct {
	Code int    `json:"code"`
	Err  string `json:"error"`
}

func NewJsonError(code int, msg string) JsonError {
	return JsonError{Code: code, Err: msg}
}

// StatusJsonError uses the lowercased status text as the message.
func StatusJsonError(code int) JsonError {
	return NewJsonError(code, strings.ToLower(http.StatusText(code)))
}

func (e JsonError) StatusCode() int {
	return e.Code
}

func (e JsonError) Error() string {
	return e.Err
}

func (e JsonError) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(e)
}

// DecodeJsonError reads an error response body written by Encode.
func DecodeJsonError(r io.Reader) (JsonError, error) {
	var e JsonError
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return JsonError{}, fmt.Errorf("decode error body: %w", err)
	}
	return e, nil
}
