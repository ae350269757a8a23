package alerting

import "sync"

// Subscriber receives alert events as they are generated.
type Subscriber interface {
	OnAlert(alert Alert)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(alert Alert)

func (f SubscriberFunc) OnAlert(alert Alert) { f(alert) }

// Feed fans alerts out to registered subscribers. There is no global bus;
// each producer publishes onto the feed it was constructed with.
type Feed struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Subscribe registers a subscriber for all future alerts.
func (f *Feed) Subscribe(s Subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, s)
}

// Publish delivers the alert to every subscriber in registration order.
func (f *Feed) Publish(alert Alert) {
	f.mu.RLock()
	subs := make([]Subscriber, len(f.subs))
	copy(subs, f.subs)
	f.mu.RUnlock()

	for _, s := range subs {
		s.OnAlert(alert)
	}
}
