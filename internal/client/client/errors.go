package client

import "errors"

var (
	// ErrEmailTaken is returned by Register when the backend rejects the
	// e-mail as already registered. The transport error stays in the chain.
	ErrEmailTaken = errors.New("email already registered")
)
