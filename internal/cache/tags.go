package cache

// Invalidation tags: every key naming an entity class embeds one of
// these, and every mutation of that class sweeps the tag.
const (
	TagSlot    = "slot"
	TagBooking = "booking"
)
