package dto

import (
	"encoding/json"

	"github.com/spec-kit/credential-service/internal/domain"
	apperrors "github.com/spec-kit/credential-service/pkg/util"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// LoginRequest payload for credential verification.
// Pointer fields separate an absent or null value from an empty string.
type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// ParseLoginRequest decodes a JSON object body using unmarshal.
// Keys must match "username" and "password" exactly. encoding/json struct decoding would
// also accept other casings.
func ParseLoginRequest(body []byte, unmarshal func(data []byte, v any) error) (LoginRequest, error) {
	var fields map[string]json.RawMessage
	if err := unmarshal(body, &fields); err != nil {
		return LoginRequest{}, apperrors.NewValidationError("invalid payload", nil)
	}

	var req LoginRequest
	var err error
	if req.Username, err = stringField(fields, "username", unmarshal); err != nil {
		return LoginRequest{}, err
	}
	if req.Password, err = stringField(fields, "password", unmarshal); err != nil {
		return LoginRequest{}, err
	}
	return req, nil
}

func stringField(fields map[string]json.RawMessage, key string, unmarshal func(data []byte, v any) error) (*string, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil, nil
	}
	var val string
	if err := unmarshal(raw, &val); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", map[string]any{"field": key})
	}
	return &val, nil
}

// Submission converts the decoded payload into a domain submission.
func (r LoginRequest) Submission() (domain.CredentialSubmission, error) {
	missing := make([]string, 0, 2)
	if r.Username == nil {
		missing = append(missing, "username")
	}
	if r.Password == nil {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return domain.CredentialSubmission{}, apperrors.NewValidationError(
			"username and password required",
			map[string]any{"missing": missing},
		)
	}
	return domain.CredentialSubmission{Username: *r.Username, Password: *r.Password}, nil
}

// VerdictResponse is the body returned for every verdict.
type VerdictResponse struct {
	Status string `json:"status"`
}

// NewVerdictResponse maps a verdict to its response body.
func NewVerdictResponse(verdict domain.Verdict) VerdictResponse {
	if verdict.Authenticated() {
		return VerdictResponse{Status: StatusSuccess}
	}
	return VerdictResponse{Status: StatusFail}
}
