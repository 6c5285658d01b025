/*
Package query implements the keyed cache behind every read the client issues
against the remote store, together with the optimistic transaction type used
by mutations.

A key is a hierarchical tuple of segments (entity domain, operation,
parameters). Keys sharing a leading segment sequence form an invalidation
group: invalidating ("events", "list") discards every cached page regardless
of trailing parameters. Reads are served stale-while-revalidate, and
concurrent fetches for an identical key are coalesced into a single request.
*/
package query

import "strings"

// Key is a hierarchical cache key. Segment order is significant; the leading
// segments name the entity domain and operation, trailing segments carry
// parameters.
type Key []string

// NewKey builds a key from its segments.
func NewKey(segments ...string) Key {
	return Key(segments)
}

// String renders the key in its canonical slash-joined form, which is the
// identity used for storage and coalescing.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether k starts with every segment of prefix, in order.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, segment := range prefix {
		if k[i] != segment {
			return false
		}
	}
	return true
}
