package list

// Status describes where an item is in its fetch lifecycle.
type Status int

const (
	StatusUnfetched Status = iota
	StatusFetching
	StatusFetched
)

func (s Status) String() string {
	switch s {
	case StatusUnfetched:
		return "unfetched"
	case StatusFetching:
		return "fetching"
	case StatusFetched:
		return "fetched"
	default:
		return "unknown"
	}
}

// Item is one row of the collection: a stable index assigned at creation
// plus the fetch lifecycle for its payload. Items are created by the
// provider and mutated only on the observation context, so no locking.
type Item[P any] struct {
	index   int
	status  Status
	payload P
}

func newItem[P any](index int) *Item[P] {
	return &Item[P]{index: index}
}

// Index is the item's identity and ordering key. It never changes.
func (it *Item[P]) Index() int {
	return it.index
}

func (it *Item[P]) Status() Status {
	return it.status
}

// Payload returns the fetched payload. The boolean is true exactly when the
// item is Fetched; callers never observe a payload in any other state.
func (it *Item[P]) Payload() (P, bool) {
	if it.status != StatusFetched {
		var zero P
		return zero, false
	}
	return it.payload, true
}

// begin moves the item into Fetching and reports whether a fetch should be
// started. Calls while Fetching or after Fetched are silently ignored, which
// is what guarantees at most one in-flight fetch per item.
func (it *Item[P]) begin() bool {
	if it.status != StatusUnfetched {
		return false
	}
	it.status = StatusFetching
	return true
}

// complete stores the payload and moves the item into Fetched. Fetched is
// terminal; a second completion leaves the first payload in place.
func (it *Item[P]) complete(payload P) {
	if it.status == StatusFetched {
		return
	}
	it.payload = payload
	it.status = StatusFetched
}

// fail returns a Fetching item to Unfetched so a later visibility trigger
// can request it again. A failure is never reported as Fetched.
func (it *Item[P]) fail() {
	if it.status == StatusFetching {
		it.status = StatusUnfetched
	}
}
