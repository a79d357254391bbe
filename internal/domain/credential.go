package domain

// CredentialSubmission is the username/password pair received in one verification attempt.
type CredentialSubmission struct {
	Username string
	Password string
}

// ReferenceCredential is the single pair the service is configured to accept.
// It is fixed at startup and shared read-only across requests.
type ReferenceCredential struct {
	Username string
	Password string
}

// Verdict is the binary outcome of a verification attempt.
type Verdict string

const (
	VerdictAuthenticated Verdict = "AUTHENTICATED"
	VerdictRejected      Verdict = "REJECTED"
)

// Authenticated reports whether the verdict grants access.
func (v Verdict) Authenticated() bool {
	return v == VerdictAuthenticated
}
