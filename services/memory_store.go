package services

import (
	"context"
	"strings"
	"sync"

	"reelmate_server/utils"
)

// MemoryStore is an in-process DocumentStore used by tests and local
// runs (STORE_BACKEND=memory). It mirrors DynamoStore's semantics:
// key fields are materialized into documents, UpdateUnion is an atomic
// append-if-absent, and every mutation publishes a fresh snapshot to
// subscribers.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]Doc
	hub  *notifier
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]Doc),
		hub:  newNotifier(),
	}
}

// Get returns the document at path, or ErrNotFound.
func (ms *MemoryStore) Get(_ context.Context, path DocPath) (Doc, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	doc, ok := ms.docs[path.String()]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDoc(doc), nil
}

// Set writes the document at path, merging into any existing document
// when merge is true.
func (ms *MemoryStore) Set(_ context.Context, path DocPath, doc Doc, merge bool) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	key := path.String()
	next := copyDoc(doc)
	if merge {
		if existing, ok := ms.docs[key]; ok {
			merged := copyDoc(existing)
			for k, v := range next {
				merged[k] = v
			}
			next = merged
		}
	}
	for k, v := range pathKeyFields(path) {
		next[k] = v
	}
	ms.docs[key] = next
	ms.hub.publish(key, copyDoc(next))
	return nil
}

// Create writes the document only if path is vacant.
func (ms *MemoryStore) Create(_ context.Context, path DocPath, doc Doc) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	key := path.String()
	if _, ok := ms.docs[key]; ok {
		return ErrAlreadyExists
	}
	next := copyDoc(doc)
	for k, v := range pathKeyFields(path) {
		next[k] = v
	}
	ms.docs[key] = next
	ms.hub.publish(key, copyDoc(next))
	return nil
}

// UpdateUnion appends value to the list field if absent, creating the
// document lazily.
func (ms *MemoryStore) UpdateUnion(_ context.Context, path DocPath, field, value string) (Doc, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	key := path.String()
	doc, ok := ms.docs[key]
	if !ok {
		doc = Doc{}
		for k, v := range pathKeyFields(path) {
			doc[k] = v
		}
	}
	list := utils.GetStringSlice(doc, field)
	if utils.ContainsString(list, value) {
		return copyDoc(doc), false, nil
	}
	doc[field] = append(list, value)
	ms.docs[key] = doc
	ms.hub.publish(key, copyDoc(doc))
	return copyDoc(doc), true, nil
}

// Subscribe delivers the current snapshot, then every mutation.
func (ms *MemoryStore) Subscribe(path DocPath, onNext func(Doc), onError func(error)) (Unsubscribe, error) {
	fetch := func() (Doc, error) {
		doc, err := ms.Get(context.Background(), path)
		if err == ErrNotFound {
			return nil, nil
		}
		return doc, err
	}
	return ms.hub.subscribe(path.String(), fetch, onNext, onError), nil
}

// QueryWhere scans a top-level collection for matching documents.
func (ms *MemoryStore) QueryWhere(_ context.Context, collection, field, op string, value interface{}) ([]Doc, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var out []Doc
	prefix := collection + "/"
	for key, doc := range ms.docs {
		if !strings.HasPrefix(key, prefix) || strings.Count(key, "/") != 1 {
			continue
		}
		if docFieldMatches(doc, field, op, value) {
			out = append(out, copyDoc(doc))
		}
	}
	return out, nil
}

func docFieldMatches(doc Doc, field, op string, value interface{}) bool {
	got := utils.GetString(doc, field)
	switch op {
	case OpEqual:
		want, ok := value.(string)
		return ok && got == want
	case OpIn:
		want, ok := value.([]string)
		return ok && utils.ContainsString(want, got)
	}
	return false
}

// copyDoc duplicates a document one level deep, including list values,
// so callers never alias stored state.
func copyDoc(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		switch list := v.(type) {
		case []string:
			dup := make([]string, len(list))
			copy(dup, list)
			out[k] = dup
		case []interface{}:
			dup := make([]interface{}, len(list))
			copy(dup, list)
			out[k] = dup
		default:
			out[k] = v
		}
	}
	return out
}
