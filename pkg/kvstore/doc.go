// Package kvstore provides the per-visitor key-value storage behind the
// session: the server-side counterpart of a browser's localStorage.
//
// Two backends implement Store: MemoryStore for single-process deployments
// and tests, and RedisStore (github.com/redis/go-redis/v9) for shared state.
// Missing and expired keys both surface as ErrNotFound. GetJSON and SetJSON
// layer JSON encoding on top of any Store, and Namespace scopes keys under a
// prefix such as a session id.
package kvstore
