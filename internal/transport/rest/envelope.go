package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
)

// envelope is the wrapper shape most backend endpoints answer with.
// Some endpoints return the bare payload instead.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
}

// decodeBody normalizes the two response shapes the backend produces:
// {data, success, message} or the bare payload itself. An in-band
// success=false is surfaced as apperrors.ErrBackend carrying the backend
// message, so callers never have to check it themselves.
func decodeBody(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil && (env.Success != nil || env.Data != nil) {
		if env.Success != nil && !*env.Success {
			msg := env.Message
			if msg == "" {
				msg = "no message provided"
			}
			return fmt.Errorf("%w: %s", apperrors.ErrBackend, msg)
		}
		if out == nil || env.Data == nil {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: decoding payload: %v", apperrors.ErrTransport, err)
		}
		return nil
	}

	// Bare payload, or something that is not an envelope.
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", apperrors.ErrTransport, err)
	}
	return nil
}
