package auth

import "github.com/spec-kit/credential-service/internal/domain"

// CredentialVerifier compares submissions against a single reference credential.
// It holds no mutable state and is safe for concurrent use.
type CredentialVerifier struct {
	reference domain.ReferenceCredential
}

// NewCredentialVerifier builds a verifier bound to the given reference credential.
func NewCredentialVerifier(reference domain.ReferenceCredential) *CredentialVerifier {
	return &CredentialVerifier{reference: reference}
}

// Verify returns VerdictAuthenticated only when both fields match the reference exactly.
func (v *CredentialVerifier) Verify(submission domain.CredentialSubmission) domain.Verdict {
	if submission.Username == v.reference.Username && submission.Password == v.reference.Password {
		return domain.VerdictAuthenticated
	}
	return domain.VerdictRejected
}
