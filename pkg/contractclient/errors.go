package contractclient

import "errors"

// ErrNotFound is returned (wrapped) by GetClusterInfo when the contract
// mock has no record for the requested cluster id.
var ErrNotFound = errors.New("cluster not found")
