// Package apierr defines the error taxonomy surfaced at the HTTP boundary:
// a small set of sentinel kinds, one per failure mode the storage/validator
// node and contract mock distinguish, plus the HTTP status each maps to.
// Handlers wrap the underlying cause with fmt.Errorf("%w", ...) against one
// of these sentinels; StatusCode unwraps with errors.Is to pick a response
// code.
package apierr
