package photos

// resultKind tags the variant held by a FetchResult.
type resultKind int

const (
	collectionKind resultKind = iota + 1
	singleKind
	failureKind
)

// FetchResult is a tagged union over the three possible deliveries of a fetch
// operation:
//
//   - a collection of items: terminal, delivered at most once per call
//   - a single item: non-terminal, delivered zero or more times when
//     asynchronous delivery is selected; it carries no completion signal
//   - a failure marker: terminal, delivered at most once, no payload
//
// Results are delivered over a channel that is closed once the operation has
// finished producing.
type FetchResult[T any] struct {
	kind  resultKind
	items []T
	item  T
}

// CollectionResult builds the terminal collection variant.
func CollectionResult[T any](items []T) FetchResult[T] {
	return FetchResult[T]{kind: collectionKind, items: items}
}

// SingleResult builds the incremental single-item variant.
func SingleResult[T any](item T) FetchResult[T] {
	return FetchResult[T]{kind: singleKind, item: item}
}

// FailureResult builds the terminal failure variant.
func FailureResult[T any]() FetchResult[T] {
	return FetchResult[T]{kind: failureKind}
}

// Items returns the collection payload. ok is false for any other variant.
func (r FetchResult[T]) Items() (items []T, ok bool) {
	return r.items, r.kind == collectionKind
}

// Item returns the single-item payload. ok is false for any other variant.
func (r FetchResult[T]) Item() (item T, ok bool) {
	return r.item, r.kind == singleKind
}

// Failed reports whether the result is the failure marker.
func (r FetchResult[T]) Failed() bool { return r.kind == failureKind }
