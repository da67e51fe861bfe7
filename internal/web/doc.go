// Package web exposes the account, catalog and cart services as a JSON API
// under /v1, plus /healthz.
//
// Visitors are identified by the X-Session-ID header; a new id is issued and
// echoed when the header is missing or malformed. Every answer uses the
// {data, message, meta, error} envelope, and messages follow the negotiated
// Accept-Language (pt-BR by default, en).
package web
