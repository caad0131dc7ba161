package entities

import "time"

// CredentialStatus is the lifecycle state of a content credential.
type CredentialStatus string

// Credential lifecycle states as reported by the credential registry.
const (
	StatusValid   CredentialStatus = "valid"
	StatusInvalid CredentialStatus = "invalid"
	StatusRevoked CredentialStatus = "revoked"
	StatusExpired CredentialStatus = "expired"
	StatusUnknown CredentialStatus = "unknown"
)

// ParseCredentialStatus converts a raw status string to a CredentialStatus.
// Unrecognized values map to StatusUnknown.
func ParseCredentialStatus(s string) CredentialStatus {
	switch CredentialStatus(s) {
	case StatusValid, StatusInvalid, StatusRevoked, StatusExpired, StatusUnknown:
		return CredentialStatus(s)
	default:
		return StatusUnknown
	}
}

// CredentialVerificationResult is the outcome of resolving a content
// credential for a piece of content. Produced by the credential registry;
// consumed read-only by the aggregator.
type CredentialVerificationResult struct {
	Status           CredentialStatus `json:"status"`
	IssuanceDate     *time.Time       `json:"issuance_date,omitempty"`
	RevocationStatus string           `json:"revocation_status,omitempty"`
}
