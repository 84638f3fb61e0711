package verify

import (
	"context"

	"github.com/guiguan/caster"
)

// Broadcaster fans out trial results to any number of subscribers.
type Broadcaster struct {
	cast *caster.Caster
}

// NewBroadcaster creates a broadcaster. Clients have to call Close after the
// last trial has been published.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{cast: caster.New(nil)}
}

// Subscribe returns a channel which receives every trial published after
// the call. The channel is closed when ctx is done or the broadcaster is
// closed. Subscribers have to drain the channel, otherwise publishing
// blocks. Subscribe returns false if the broadcaster has already been closed
// or ctx is already done.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan Trial, bool) {
	select {
	case <-b.cast.Done():
		return nil, false
	case <-ctx.Done():
		return nil, false
	default:
	}
	sub, ok := b.cast.Sub(ctx, 16)
	if !ok {
		return nil, false
	}
	trials := make(chan Trial)
	go func() {
		defer close(trials)
		for msg := range sub {
			trial, ok := msg.(Trial)
			if !ok {
				continue
			}
			select {
			case trials <- trial:
			case <-ctx.Done():
				return
			}
		}
	}()
	return trials, true
}

func (b *Broadcaster) publish(trial Trial) {
	if b == nil {
		return
	}
	if !b.cast.Pub(trial) {
		tracer().Debugf("trial %d published after broadcaster closed", trial.Index)
	}
}

// Close stops the broadcaster and closes all subscriber channels. It returns
// after the broadcaster has shut down.
func (b *Broadcaster) Close() {
	b.cast.Close()
	<-b.cast.Done()
}
