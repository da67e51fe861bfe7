// Package livroapi is the client for the Livro&Livro book-exchange backend.
//
// It covers login, account creation and profile updates, the book listing
// endpoints, and the pre-signed cover upload. Requests are retried on 429,
// 5xx and transport errors with exponential backoff and full jitter.
//
// Dates travel as [year, month, day] arrays on the wire and are exposed as
// ISO YYYY-MM-DD strings:
//
//	client, err := livroapi.New(cfg, livroapi.WithLogger(log))
//	user, err := client.Login(ctx, "ana@example.com", "secret123")
//	// user.BirthDate == "1990-05-07"
package livroapi
