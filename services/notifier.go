package services

import "sync"

// subscriberBuffer bounds the per-subscription update queue. When a
// slow consumer falls behind, the oldest queued snapshot is dropped;
// documents only grow, so coalescing intermediate snapshots is safe.
const subscriberBuffer = 16

type docUpdate struct {
	seq uint64
	doc Doc
}

type docSubscriber struct {
	updates chan docUpdate
	stop    chan struct{}
	once    sync.Once
}

// notifier is the in-process change hub backing store subscriptions.
// Every successful mutation through a store publishes the resulting
// snapshot here; subscribers receive snapshots in publish order.
//
// Publishes are stamped with a monotonic sequence number. A subscriber
// captures the current sequence before its initial fetch; a write that
// publishes while the fetch is in flight carries a later sequence and
// is delivered after the snapshot rather than dropped. Snapshots are
// full document states, so such a delivery is at worst redundant.
// Updates at or below the captured sequence predate the fetch and are
// discarded.
type notifier struct {
	mu   sync.Mutex
	seq  uint64
	subs map[string]map[int]*docSubscriber
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]*docSubscriber)}
}

// publish fans the snapshot out to every subscriber of key.
func (n *notifier) publish(key string, doc Doc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	for _, sub := range n.subs[key] {
		update := docUpdate{seq: n.seq, doc: doc}
		select {
		case sub.updates <- update:
		default:
			// Queue full: drop the oldest snapshot to make room.
			select {
			case <-sub.updates:
			default:
			}
			sub.updates <- update
		}
	}
}

// current returns the latest published sequence number.
func (n *notifier) current() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.seq
}

// subscribe registers a subscriber for key. fetch loads the initial
// snapshot (nil when the document is absent); it runs on the delivery
// goroutine so implementations may perform I/O.
func (n *notifier) subscribe(key string, fetch func() (Doc, error), onNext func(Doc), onError func(error)) Unsubscribe {
	sub := &docSubscriber{
		updates: make(chan docUpdate, subscriberBuffer),
		stop:    make(chan struct{}),
	}

	n.mu.Lock()
	n.next++
	id := n.next
	if n.subs[key] == nil {
		n.subs[key] = make(map[int]*docSubscriber)
	}
	n.subs[key][id] = sub
	n.mu.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			n.mu.Lock()
			delete(n.subs[key], id)
			if len(n.subs[key]) == 0 {
				delete(n.subs, key)
			}
			n.mu.Unlock()
			close(sub.stop)
		})
	}

	go func() {
		lastSeq := n.current()
		doc, err := fetch()
		if err != nil {
			onError(err)
		} else {
			select {
			case <-sub.stop:
				return
			default:
			}
			onNext(doc)
		}
		for {
			select {
			case <-sub.stop:
				return
			case update := <-sub.updates:
				if update.seq <= lastSeq {
					continue
				}
				lastSeq = update.seq
				onNext(update.doc)
			}
		}
	}()

	return unsubscribe
}
