package account

import "errors"

var (
	ErrNotLoggedIn        = errors.New("account: not logged in")
	ErrInvalidCredentials = errors.New("account: invalid email or password")
	ErrCorruptSession     = errors.New("account: stored session is unreadable")
)
