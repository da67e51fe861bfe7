// Package ratelimiter throttles requests with a token bucket kept in a
// kvstore.Store.
//
// Each key starts with Capacity tokens and regains RefillRate tokens every
// RefillInterval. A request is allowed while a token is left:
//
//	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	r.With(ratelimiter.Middleware(b, ratelimiter.ClientIP, tooMany, log)).Post("/session", login)
package ratelimiter
