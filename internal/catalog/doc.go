// Package catalog serves the book list behind the catalog, "my books" and
// cart pages.
//
// The list fetched from the remote API is cached in a key-value store for
// an hour (keys "books" and "booksTimeout"), refreshed through a single
// in-flight call, and cleared when a refresh fails. Filter and Sort mirror
// the catalog page controls; titles and authors sort with Brazilian
// Portuguese collation.
package catalog
