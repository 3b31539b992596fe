package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd creates a Bubble Tea command that waits for the next event on ch.
// Returns nil if the context is cancelled or the channel is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// LatestCmd is like ListenCmd but, once an event arrives, drains whatever is
// already buffered and returns only the newest one. Snapshot streams use it
// because intermediate snapshots are superseded by the last.
func LatestCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		var latest Event[T]
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			latest = event
		}
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return latest
				}
				latest = event
			default:
				return latest
			}
		}
	}
}

// ContinuousListener keeps a broker subscription alive across Bubble Tea
// update cycles.
type ContinuousListener[T any] struct {
	ctx        context.Context
	ch         <-chan Event[T]
	latestOnly bool
}

// NewContinuousListener creates a listener that receives every event.
// The subscription is cleaned up when the context is cancelled.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// NewLatestListener creates a listener that collapses bursts into the newest event.
func NewLatestListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx:        ctx,
		ch:         broker.Subscribe(ctx),
		latestOnly: true,
	}
}

// Listen returns a tea.Cmd that waits for the next event.
// Call it again from Update after handling an event to keep receiving.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	if l.latestOnly {
		return LatestCmd(l.ctx, l.ch)
	}
	return ListenCmd(l.ctx, l.ch)
}
