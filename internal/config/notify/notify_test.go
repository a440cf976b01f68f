package notify

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// set delivers a single set change through a batch.
func set(n *Notifier, topic string, oldValue, newValue any, source string) {
	b := n.NewBatch()
	b.Set(topic, oldValue, newValue, source)
	b.Commit()
}

func TestChangeTypeString(t *testing.T) {
	assert.Equal(t, "set", ChangeSet.String())
	assert.Equal(t, "reload", ChangeReload.String())
	assert.Equal(t, "unknown", ChangeType(99).String())
}

func TestNotifierSubscribe(t *testing.T) {
	n := New()

	var received atomic.Int32
	sub := n.Subscribe(func(Change) { received.Add(1) })
	assert.NotEqual(t, sub.ID().String(), "")
	assert.Equal(t, 1, n.Len())

	set(n, "bindings", nil, 3, "test")
	assert.Equal(t, int32(1), received.Load())

	sub.Unsubscribe()
	sub.Unsubscribe()
	assert.Equal(t, 0, n.Len())

	set(n, "bindings", nil, 4, "test")
	assert.Equal(t, int32(1), received.Load())
}

func TestNotifierSubscribeTopic(t *testing.T) {
	n := New()

	var active, mode atomic.Int32
	n.SubscribeTopic("active", func(Change) { active.Add(1) })
	n.SubscribeTopic("mode", func(Change) { mode.Add(1) })

	set(n, "active.scheme", "default", "emacs", "test")
	set(n, "active", nil, nil, "test")
	set(n, "activeness", nil, nil, "test")
	set(n, "mode", nil, nil, "test")

	assert.Equal(t, int32(2), active.Load())
	assert.Equal(t, int32(1), mode.Load())

	n.NotifyReload("test")
	assert.Equal(t, int32(3), active.Load())
	assert.Equal(t, int32(2), mode.Load())
}

func TestNotifierDeliveryOrder(t *testing.T) {
	n := New()

	var order []int
	for i := range 5 {
		n.Subscribe(func(Change) { order = append(order, i) })
	}

	set(n, "x", nil, nil, "")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestNotifierObserverMayUnsubscribe(t *testing.T) {
	n := New()

	var calls atomic.Int32
	var sub *Subscription
	sub = n.Subscribe(func(Change) {
		calls.Add(1)
		sub.Unsubscribe()
	})
	n.Subscribe(func(Change) { calls.Add(1) })

	set(n, "x", nil, nil, "")
	set(n, "x", nil, nil, "")
	assert.Equal(t, int32(3), calls.Load())
}

func TestBatch(t *testing.T) {
	n := New()

	var topics []string
	n.Subscribe(func(c Change) { topics = append(topics, c.Topic) })

	b := n.NewBatch()
	b.Set("bindings", nil, nil, "test")
	b.Add(Change{Topic: "hierarchy.context"})
	assert.Equal(t, 2, b.Len())
	assert.Empty(t, topics)

	b.Commit()
	assert.Equal(t, []string{"bindings", "hierarchy.context"}, topics)
	assert.Equal(t, 0, b.Len())

	b.Set("mode", nil, nil, "test")
	b.Discard()
	b.Commit()
	assert.Len(t, topics, 2)
}

func TestMatchesTopic(t *testing.T) {
	tests := []struct {
		sub, topic string
		want       bool
	}{
		{"", "anything", true},
		{"active", "active", true},
		{"active", "active.scheme", true},
		{"active", "activeness", false},
		{"active.scheme", "active", false},
		{"mode", "bindings", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesTopic(tt.sub, tt.topic), "%q receives %q", tt.sub, tt.topic)
	}
}

func TestNotifierConcurrentAccess(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := n.Subscribe(func(Change) {})
			set(n, "x", nil, nil, "")
			sub.Unsubscribe()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent access deadlocked")
	}
	assert.Equal(t, 0, n.Len())
}
