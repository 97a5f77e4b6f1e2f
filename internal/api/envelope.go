package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire version of the response envelope. Clients
// check this field before parsing the rest of the payload.
const EnvelopeVersion = 1

// SuccessEnvelope wraps successful responses.
type SuccessEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// SimpleErrorEnvelope wraps errors that carry only a message.
type SimpleErrorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// DetailedErrorEnvelope wraps coded errors with optional details.
type DetailedErrorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned
// envelope the clients expect. The version field is named "v" exactly;
// renaming it breaks client parsing silently.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" {
			return &SimpleErrorEnvelope{
				V:       EnvelopeVersion,
				Success: false,
				Error:   apiErr.Message,
			}, nil
		}
		return &DetailedErrorEnvelope{
			V:       EnvelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return &SuccessEnvelope{
		V:       EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
