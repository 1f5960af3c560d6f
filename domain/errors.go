package domain

import "errors"

// ErrPermissionDenied is reported by remote persistence when the account
// store rejects access; the tiered store disables remote writes for the
// rest of the session when it sees this.
var ErrPermissionDenied = errors.New("permission denied")
