// Package orderbook maintains an in-memory, order-level limit order
// book for a single instrument. It keeps two red-black trees of price
// levels (bid and ask sides) plus an order-id index for O(log n)
// lookups, and exposes add/cancel/modify/fill mutations together with
// best-of-book and depth queries.
//
// The book is single-writer and performs no internal locking; callers
// that share it across goroutines must serialize access themselves.
package orderbook
