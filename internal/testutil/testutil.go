package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
)

// CreateBookPayload is a valid POST /api/books body for the given ISBN.
func CreateBookPayload(isbn string) map[string]any {
	return map[string]any{
		"title":         "The Go Programming Language",
		"author":        "Alan Donovan",
		"isbn":          isbn,
		"price":         "39.99",
		"stockQuantity": 10,
		"publishedDate": "2015-10-26",
	}
}

// UpdateBookPayload is a valid PUT /api/books/{id} body.
func UpdateBookPayload(price string, stock int) map[string]any {
	return map[string]any{
		"title":         "The Go Programming Language",
		"author":        "Alan Donovan",
		"price":         price,
		"stockQuantity": stock,
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Raw    []byte
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Raw:    bodyBytes,
	}
}

// Decode unmarshals the recorded body into dst.
func (r RecordResponse) Decode(dst any) error {
	return json.Unmarshal(r.Raw, dst)
}

// ErrorCode returns error.code of an error envelope, or "" for any other body.
func (r RecordResponse) ErrorCode() string {
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(r.Raw, &env); err != nil {
		return ""
	}
	return env.Error.Code
}
