// Package cart implements the "Gostaria de Ler" interest list.
//
// A visitor must be logged in to add a book, cannot add a book they listed
// themselves, and cannot add the same book twice. Shipping is a flat
// ShippingPerBook per stored id.
package cart
