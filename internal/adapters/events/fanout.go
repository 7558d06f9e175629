package events

import (
	"sync"

	"github.com/navina/travelguide/internal/domain/entities"
)

// subscriberBuffer is how many undelivered events a slow subscriber may hold
// before further events for it are dropped
const subscriberBuffer = 100

// fanout tracks the local subscribers of each channel and copies events to
// them without blocking on slow readers.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.ConversationEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.ConversationEvent]struct{})}
}

// add registers a new buffered subscriber and returns it with the channel's
// subscriber count after the add.
func (f *fanout) add(channel string) (chan *entities.ConversationEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.ConversationEvent]struct{})
	}
	ch := make(chan *entities.ConversationEvent, subscriberBuffer)
	f.subscribers[channel][ch] = struct{}{}
	return ch, len(f.subscribers[channel])
}

// remove closes and forgets one subscriber. It reports whether the channel
// has no subscribers left. Removing an unknown subscriber is a no-op.
func (f *fanout) remove(channel string, ch chan *entities.ConversationEvent) (empty bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs, ok := f.subscribers[channel]
	if !ok {
		return false
	}
	if _, ok := subs[ch]; !ok {
		return false
	}
	delete(subs, ch)
	close(ch)

	if len(subs) == 0 {
		delete(f.subscribers, channel)
		return true
	}
	return false
}

// closeChannel closes every subscriber of channel
func (f *fanout) closeChannel(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subscribers[channel] {
		close(ch)
	}
	delete(f.subscribers, channel)
}

// broadcast offers event to every subscriber of channel. Full buffers drop
// the event for that subscriber only.
func (f *fanout) broadcast(channel string, event *entities.ConversationEvent) (delivered, dropped int) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subscribers[channel] {
		select {
		case ch <- event:
			delivered++
		default:
			dropped++
		}
	}
	return delivered, dropped
}

func (f *fanout) count(channel string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers[channel])
}
