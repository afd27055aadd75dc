package services

import "context"

// Doc is a decoded document body. Values follow the JSON type set:
// strings, float64 numbers, bools, []interface{} and nested maps.
type Doc map[string]interface{}

// DocPath identifies a document as (collection, id) with an optional
// (subcollection, id) pair below it, e.g. sessions/abc/swipes/603.
type DocPath struct {
	Collection    string
	ID            string
	SubCollection string
	SubID         string
}

// NewDocPath builds a top-level document path.
func NewDocPath(collection, id string) DocPath {
	return DocPath{Collection: collection, ID: id}
}

// Child returns the path of a document in a subcollection below p.
func (p DocPath) Child(subCollection, subID string) DocPath {
	p.SubCollection = subCollection
	p.SubID = subID
	return p
}

// String renders the path in slash form, used as the notifier key.
func (p DocPath) String() string {
	s := p.Collection + "/" + p.ID
	if p.SubCollection != "" {
		s += "/" + p.SubCollection + "/" + p.SubID
	}
	return s
}

// SessionPath is the path of a session document.
func SessionPath(sessionID string) DocPath {
	return NewDocPath("sessions", sessionID)
}

// SwipePath is the path of the swipe record for a movie in a session.
func SwipePath(sessionID, movieID string) DocPath {
	return SessionPath(sessionID).Child("swipes", movieID)
}

// UserPath is the path of a user profile document.
func UserPath(userID string) DocPath {
	return NewDocPath("users", userID)
}

// Unsubscribe terminates a live subscription. Calling it more than
// once is a no-op.
type Unsubscribe func()

// Query operators accepted by QueryWhere.
const (
	OpEqual = "=="
	OpIn    = "in"
)

// DocumentStore is the key-value document storage consumed by the
// services. Two implementations exist: DynamoStore for deployments and
// MemoryStore for tests and local runs. Both guarantee that
// UpdateUnion is atomic, commutative and idempotent, and that
// subscriptions observe each document's mutations in write order
// (rapid updates may be coalesced into one notification).
type DocumentStore interface {
	// Get returns the document at path, or ErrNotFound.
	Get(ctx context.Context, path DocPath) (Doc, error)

	// Set writes the document at path. With merge, existing fields not
	// present in doc are kept; without, the document is replaced.
	Set(ctx context.Context, path DocPath, doc Doc, merge bool) error

	// Create writes the document only if nothing exists at path,
	// failing with ErrAlreadyExists otherwise.
	Create(ctx context.Context, path DocPath, doc Doc) error

	// UpdateUnion appends value to the named list field if it is not
	// already present, creating the document and the field as needed.
	// Existing order is preserved. It returns the post-update document
	// and whether the value was actually added.
	UpdateUnion(ctx context.Context, path DocPath, field, value string) (Doc, bool, error)

	// Subscribe delivers the current document (nil if absent)
	// immediately, then every subsequent mutation, until the returned
	// handle is invoked. Transport failures go to onError instead.
	Subscribe(path DocPath, onNext func(Doc), onError func(error)) (Unsubscribe, error)

	// QueryWhere returns the documents in a top-level collection whose
	// field matches value under op (OpEqual takes a string value, OpIn
	// a []string).
	QueryWhere(ctx context.Context, collection, field, op string, value interface{}) ([]Doc, error)
}
