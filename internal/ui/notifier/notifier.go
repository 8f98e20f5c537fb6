// Package notifier provides a per-dashboard broadcast mechanism for SSE
// updates. Listeners subscribe to one dashboard and receive a ping when that
// dashboard changed out from under them (e.g. a definition re-import); they
// re-query the session rather than carrying payloads over the channel.
package notifier

import "sync"

// Notifier broadcasts update pings to listeners subscribed per dashboard.
type Notifier struct {
	mu     sync.RWMutex
	topics map[string]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{topics: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe returns a channel that receives pings when the dashboard is
// updated. The caller must call Unsubscribe when done to prevent leaks.
func (n *Notifier) Subscribe(dashboardID string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	listeners, ok := n.topics[dashboardID]
	if !ok {
		listeners = make(map[chan struct{}]struct{})
		n.topics[dashboardID] = listeners
	}
	listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(dashboardID string, ch chan struct{}) {
	n.mu.Lock()
	if listeners, ok := n.topics[dashboardID]; ok {
		delete(listeners, ch)
		if len(listeners) == 0 {
			delete(n.topics, dashboardID)
		}
	}
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends a ping to the dashboard's listeners.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier) Broadcast(dashboardID string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.topics[dashboardID] {
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, skip (listener will catch up on next broadcast)
		}
	}
}
