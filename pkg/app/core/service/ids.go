package service

import "fmt"

const idPrefix = "ORD-"

// idSequence hands out ORD-001, ORD-002, ... skipping IDs already taken.
// It is only used inside a store write scope, so it needs no lock.
type idSequence struct {
	last uint64
}

func formatID(n uint64) string {
	return fmt.Sprintf("%s%03d", idPrefix, n)
}

func (s *idSequence) next(taken func(string) bool) (string, uint64) {
	for {
		s.last++
		id := formatID(s.last)
		if !taken(id) {
			return id, s.last
		}
	}
}
