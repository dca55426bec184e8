package apierr

import (
	"errors"
	"net/http"
)

// Sentinel error kinds. Callers wrap these with fmt.Errorf("%w: ...", Kind)
// so errors.Is still matches through additional context.
var (
	// ErrInvalidInput covers malformed cluster ids, oversized payloads,
	// malformed multipart bodies, and non-power-of-two matrix dimensions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSignatureInvalid is a signature verification failure.
	ErrSignatureInvalid = errors.New("signature invalid")

	// ErrCommitmentMismatch is a recomputed pcs_commitment_hash that
	// differs from the contract's recorded value.
	ErrCommitmentMismatch = errors.New("commitment mismatch")

	// ErrNotFound is an unknown cluster id.
	ErrNotFound = errors.New("not found")

	// ErrRoleMismatch is a storage-only operation requested on a
	// validator node, or vice versa.
	ErrRoleMismatch = errors.New("role mismatch")

	// ErrStorageIO covers disk errors and metadata-store errors.
	ErrStorageIO = errors.New("storage i/o failed")
)

// StatusCode maps err to the HTTP status it should be reported as, per the
// taxonomy above. Errors not wrapping any known sentinel map to 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrSignatureInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrCommitmentMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoleMismatch):
		return http.StatusForbidden
	case errors.Is(err, ErrStorageIO):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
