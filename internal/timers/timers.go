// Package timers runs the per-ticket display refresh tickers. The tickers
// only prompt the renderer to re-read remaining time; whether a ticket is
// expired is always decided from the wall clock, never from a tick count.
package timers

import (
	"sync"
	"time"
)

// Group owns a set of per-ticket one-second tickers that can be torn down
// together when the view goes away.
type Group struct {
	mu       sync.Mutex
	interval time.Duration
	stops    map[string]chan struct{}
	wg       sync.WaitGroup
}

func NewGroup(interval time.Duration) *Group {
	if interval <= 0 {
		interval = time.Second
	}
	return &Group{
		interval: interval,
		stops:    make(map[string]chan struct{}),
	}
}

// Start runs tick for the given ticket on every interval until the callback
// returns false or the group is stopped. Starting an ID that is already
// running restarts its timer.
func (g *Group) Start(ticketID string, tick func(ticketID string) bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if stop, ok := g.stops[ticketID]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	g.stops[ticketID] = stop

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !tick(ticketID) {
					g.remove(ticketID, stop)
					return
				}
			}
		}
	}()
}

// Stop cancels the timer for one ticket, if running.
func (g *Group) Stop(ticketID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if stop, ok := g.stops[ticketID]; ok {
		close(stop)
		delete(g.stops, ticketID)
	}
}

// StopAll cancels every running timer and waits for the goroutines to exit.
// Safe to call repeatedly and from teardown paths.
func (g *Group) StopAll() {
	g.mu.Lock()
	for id, stop := range g.stops {
		close(stop)
		delete(g.stops, id)
	}
	g.mu.Unlock()
	g.wg.Wait()
}

// Active reports how many timers are currently registered.
func (g *Group) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.stops)
}

// remove drops the entry only if it still maps to the same stop channel, so a
// restarted timer is not torn down by its predecessor.
func (g *Group) remove(ticketID string, stop chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if current, ok := g.stops[ticketID]; ok && current == stop {
		delete(g.stops, ticketID)
	}
}
