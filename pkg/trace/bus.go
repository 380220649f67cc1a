// Package trace implements TraceBus (§4.5): a single-producer-many-consumer
// broadcast of pipeline trace messages, with per-subscriber directory
// filtering and drop-oldest overflow semantics.
package trace

import (
	"sync"

	"github.com/google/uuid"
)

// Message is a TraceMessage: {directory, action name or "end", text}. A nil
// ActionName marks "this pipeline invocation's stream ended".
type Message struct {
	DirectoryPath string
	ActionName    *string
	Text          string
}

// subscriberCapacity is the bounded buffer size for each subscriber's
// channel (§4.5 recommends N >= 10).
const subscriberCapacity = 32

// Bus is the TraceBus. WatcherTasks publish to it via Publish; RPC
// TraceHandler calls allocate a Subscription via Subscribe.
type Bus struct {
	mutex       sync.Mutex
	subscribers map[*Subscription]struct{}
}

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{subscribers: make(map[*Subscription]struct{})}
}

// Subscription is a single subscriber's view of the bus: a channel fed by
// Publish calls for the directories it cares about.
type Subscription struct {
	// Messages delivers every published message accepted by this
	// subscription's directory filter, oldest first. If the consumer falls
	// behind, the oldest buffered message is dropped to make room, so the
	// producer is never blocked.
	Messages chan Message

	// ID uniquely identifies this subscription for logging correlation
	// across a TraceHandler call's lifetime.
	ID string

	bus           *Bus
	directoryPath string
}

// matches reports whether message belongs to this subscription's filter: an
// empty directoryPath ("trace all") matches everything.
func (s *Subscription) matches(message Message) bool {
	return s.directoryPath == "" || s.directoryPath == message.DirectoryPath
}

// Subscribe allocates a new Subscription. An empty directoryPath subscribes
// to every directory ("trace all"); otherwise only messages for that exact
// directory are delivered.
func (b *Bus) Subscribe(directoryPath string) *Subscription {
	subscription := &Subscription{
		Messages:      make(chan Message, subscriberCapacity),
		ID:            uuid.NewString(),
		bus:           b,
		directoryPath: directoryPath,
	}

	b.mutex.Lock()
	b.subscribers[subscription] = struct{}{}
	b.mutex.Unlock()

	return subscription
}

// Unsubscribe removes subscription from the bus and closes its channel. The
// caller must stop reading from Messages once this returns.
func (s *Subscription) Unsubscribe() {
	s.bus.mutex.Lock()
	delete(s.bus.subscribers, s)
	s.bus.mutex.Unlock()
	close(s.Messages)
}

// Publish broadcasts a trace message to every subscriber whose filter
// accepts it. Never blocks: a subscriber whose buffer is full has its
// oldest buffered message dropped to make room for the new one.
func (b *Bus) Publish(directoryPath string, actionName *string, text string) {
	message := Message{DirectoryPath: directoryPath, ActionName: actionName, Text: text}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	for subscriber := range b.subscribers {
		if !subscriber.matches(message) {
			continue
		}
		deliver(subscriber.Messages, message)
	}
}

// deliver sends message on ch without blocking, dropping the oldest
// buffered message first if the buffer is full.
func deliver(ch chan Message, message Message) {
	select {
	case ch <- message:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- message:
	default:
	}
}
