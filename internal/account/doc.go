// Package account handles sign-up, sign-in and the profile of the visitor
// logged in to a session.
//
// Registration rules run in form order and report the first failure per
// field, with Portuguese messages and "register.*" translation keys:
//
//	err := form.Validate()
//	for field, msgs := range validator.ExtractValidationErrors(err).Messages() {
//		...
//	}
//
// The account is kept in the session store under "currentUser" without its
// password.
package account
