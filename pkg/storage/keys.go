package storage

import "fmt"

// Key schema:
//
//	fill:<instrument>:<unix-nanos>:<seq> → fill record
//
// Timestamp and sequence are zero-padded (20 digits) so keys of one
// instrument sort chronologically, with seq breaking equal timestamps.
const prefixFill = "fill:"

func fillKey(instrument string, unixNano int64, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d:%020d", prefixFill, instrument, unixNano, seq))
}

func fillPrefix(instrument string) []byte {
	return []byte(fmt.Sprintf("%s%s:", prefixFill, instrument))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
