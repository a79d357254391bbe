package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/credential-service/internal/api/dto"
	"github.com/spec-kit/credential-service/internal/domain"
	"github.com/spec-kit/credential-service/internal/observability"
	apperrors "github.com/spec-kit/credential-service/pkg/util"
)

// Verifier decides whether a submission matches the configured credential.
type Verifier interface {
	Verify(submission domain.CredentialSubmission) domain.Verdict
}

// LoginHandler exposes the credential verification endpoint.
type LoginHandler struct {
	verifier Verifier
	metrics  *observability.Metrics
}

// NewLoginHandler constructs handler.
func NewLoginHandler(verifier Verifier, metrics *observability.Metrics) *LoginHandler {
	return &LoginHandler{verifier: verifier, metrics: metrics}
}

// Login handles POST /login.
func (h *LoginHandler) Login(c *fiber.Ctx) error {
	if !c.Is("json") {
		return apperrors.NewValidationError("content type must be application/json", nil)
	}
	req, err := dto.ParseLoginRequest(c.Body(), c.App().Config().JSONDecoder)
	if err != nil {
		return err
	}
	submission, err := req.Submission()
	if err != nil {
		return err
	}

	verdict := h.verifier.Verify(submission)
	h.metrics.RecordVerdict(verdict)

	return c.Status(VerdictStatus(verdict)).JSON(dto.NewVerdictResponse(verdict))
}

// VerdictStatus maps a verdict to its HTTP status code.
func VerdictStatus(verdict domain.Verdict) int {
	if verdict.Authenticated() {
		return http.StatusOK
	}
	return http.StatusUnauthorized
}
