package domain

// AccessPolicy decides whether sessions built from a catalog item are free.
// It is deterministic and side-effect free, so listings and previews can
// apply it independently of the generator.
type AccessPolicy struct {
	// FreeThreshold is the ordinal cutoff: items before it produce free
	// sessions, items at or after it produce paid ones.
	FreeThreshold int
}

// IsFree reports whether a catalog item at the given ordinal position
// produces free sessions.
func (p AccessPolicy) IsFree(ordinalPosition int) bool {
	return ordinalPosition < p.FreeThreshold
}
