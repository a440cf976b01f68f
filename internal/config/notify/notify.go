// Package notify provides change notification for engine state updates.
//
// Observers subscribe to every change or to a dot-separated topic such as
// "active" (which also receives "active.scheme"). Delivery happens outside
// the notifier's lock, from a snapshot of the observers taken when the
// change is delivered, so an observer may subscribe or unsubscribe from
// inside its callback.
package notify

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ChangeType represents the type of change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReload indicates the whole state was replaced.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a change event.
type Change struct {
	// Topic is the dot-separated name of what changed, e.g. "active.scheme".
	// Empty for reload events.
	Topic string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value.
	NewValue any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when a change occurs.
type Observer func(change Change)

type entry struct {
	seq      uint64
	topic    string
	observer Observer
}

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uuid.UUID
	notifier *Notifier
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	observers map[uuid.UUID]entry
	nextSeq   uint64
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[uuid.UUID]entry)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeTopic("", observer)
}

// SubscribeTopic registers an observer for a topic and its subtopics.
// Subscribing to "active" receives "active" and "active.contexts".
// Reload events reach every observer.
func (n *Notifier) SubscribeTopic(topic string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New()
	n.observers[id] = entry{seq: n.nextSeq, topic: topic, observer: observer}
	n.nextSeq++

	return &Subscription{id: id, notifier: n}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

// NotifyReload tells every observer that the whole state was replaced.
func (n *Notifier) NotifyReload(source string) {
	n.deliver(Change{Type: ChangeReload, Source: source})
}

func (n *Notifier) unsubscribe(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// deliver calls matching observers in subscription order.
func (n *Notifier) deliver(change Change) {
	n.mu.RLock()
	matched := make([]entry, 0, len(n.observers))
	for _, e := range n.observers {
		if change.Type == ChangeReload || matchesTopic(e.topic, change.Topic) {
			matched = append(matched, e)
		}
	}
	n.mu.RUnlock()

	slices.SortFunc(matched, func(a, b entry) int { return cmp.Compare(a.seq, b.seq) })

	// Call observers outside the lock
	for _, e := range matched {
		e.observer(change)
	}
}

// matchesTopic reports whether a subscription to sub receives topic.
// "" receives everything; "active" receives "active" and "active.scheme".
func matchesTopic(sub, topic string) bool {
	if sub == "" || sub == topic {
		return true
	}
	return strings.HasPrefix(topic, sub) && len(topic) > len(sub) && topic[len(sub)] == '.'
}

// Batch collects changes and delivers them together on Commit.
type Batch struct {
	notifier *Notifier
	changes  []Change
	mu       sync.Mutex
}

// NewBatch creates a new batch for collecting changes.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Add adds a change to the batch.
func (b *Batch) Add(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
}

// Set adds a set change to the batch.
func (b *Batch) Set(topic string, oldValue, newValue any, source string) {
	b.Add(Change{
		Topic:    topic,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// Commit sends all batched changes to observers in the order added.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, change := range changes {
		b.notifier.deliver(change)
	}
}

// Discard clears the batch without sending notifications.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = nil
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}
