package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBytes = 8 << 20

type envelope struct {
	Success *bool               `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  []map[string]string `json:"errors"`
}

// decode is the single place responses are interpreted. It accepts either
// the {"success", "data"} envelope or a bare JSON value. When an envelope
// carries no "data" member the whole object is the payload, which is how
// login answers ({"success", "token", "name"}).
func decode[T any](resp *http.Response) (T, error) {
	var zero T

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	body = bytes.TrimSpace(body)

	var env envelope
	isEnvelope := len(body) > 0 && body[0] == '{' && json.Unmarshal(body, &env) == nil && env.Success != nil

	if resp.StatusCode >= http.StatusBadRequest || (isEnvelope && !*env.Success) {
		return zero, apiError(resp, env, body)
	}

	payload := body
	if isEnvelope && len(env.Data) > 0 {
		payload = env.Data
	}
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func apiError(resp *http.Response, env envelope, body []byte) *APIError {
	ae := &APIError{Status: resp.StatusCode, Message: env.Message}
	if ae.Message == "" && len(body) > 0 && body[0] != '{' && len(body) < 200 {
		ae.Message = string(body)
	}
	if len(env.Errors) > 0 {
		ae.FieldErrors = make(map[string]string, len(env.Errors))
		for _, e := range env.Errors {
			for k, v := range e {
				ae.FieldErrors[k] = v
			}
		}
	}
	return ae
}
