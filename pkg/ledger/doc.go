// Package ledger stores accepted form submissions in submission order.
//
// Entries are addressed by dense, zero-based positions that shift down after
// every removal, mirroring how a rendered table addresses its rows. Each entry
// also carries an ID that stays stable across removals; renderers can use it
// as a row key, but every mutating call still takes a position.
package ledger
