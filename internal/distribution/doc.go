// Package distribution spreads per-item work across a fixed pool of workers.
//
// Items are assigned round-robin: worker w handles indices w, w+W, w+2W and so
// on. Every outcome travels through a single aggregation channel, so callers see
// results in arrival order, not input order.
package distribution
