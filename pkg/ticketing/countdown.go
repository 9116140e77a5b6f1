package ticketing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/ticketbot/pkg/messages"
	"github.com/Jacobbrewer1/ticketbot/pkg/platform"
)

const (
	// CountdownSteps is the number of countdown messages sent before a ticket is deleted.
	CountdownSteps = 5

	// DefaultCountdownInterval is the spacing between countdown messages.
	DefaultCountdownInterval = time.Second
)

// ErrCountdownCancelled is the result of a countdown that was cancelled before deletion.
var ErrCountdownCancelled = errors.New("countdown cancelled")

// Countdown counts a ticket channel down and then deletes it. It can be cancelled up until the
// deletion request is made.
type Countdown struct {
	channelID string
	interval  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mtx      sync.Mutex
	deleting bool
	err      error
}

func newCountdown(parent context.Context, channelID string, interval time.Duration) *Countdown {
	ctx, cancel := context.WithCancel(parent)
	return &Countdown{
		channelID: channelID,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// ChannelID is the channel being counted down.
func (c *Countdown) ChannelID() string {
	return c.channelID
}

// Done is closed once the countdown finished, failed or was cancelled.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Err is the result of the countdown once Done is closed. It is nil when the channel was deleted
// and ErrCountdownCancelled when the countdown was cancelled.
func (c *Countdown) Err() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.err
}

// Cancel stops the countdown. It returns false if deletion has already been requested.
func (c *Countdown) Cancel() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.deleting {
		return false
	}
	c.cancel()
	return true
}

// run sends the countdown messages in descending order, one per interval, then deletes the channel.
func (c *Countdown) run(p platform.Adapter) {
	defer close(c.done)
	defer c.cancel()

	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for i := CountdownSteps; i > 0; i-- {
		if c.cancelled() {
			return
		}

		if _, err := p.SendMessage(c.ctx, c.channelID, &discordgo.MessageSend{
			Content: fmt.Sprintf(messages.CountdownFmt, i),
		}); err != nil {
			if c.cancelled() {
				return
			}
			c.finish(fmt.Errorf("error sending countdown message: %w", err))
			return
		}

		timer.Reset(c.interval)
		select {
		case <-c.ctx.Done():
			c.finish(ErrCountdownCancelled)
			return
		case <-timer.C:
		}
	}

	c.mtx.Lock()
	if c.ctx.Err() != nil {
		c.err = ErrCountdownCancelled
		c.mtx.Unlock()
		return
	}
	c.deleting = true
	c.mtx.Unlock()

	// Deletion has been committed to, it must not be interrupted by Cancel.
	if err := p.DeleteChannel(context.WithoutCancel(c.ctx), c.channelID); err != nil {
		c.finish(fmt.Errorf("error deleting ticket channel: %w", err))
	}
}

func (c *Countdown) cancelled() bool {
	if c.ctx.Err() == nil {
		return false
	}
	c.finish(ErrCountdownCancelled)
	return true
}

func (c *Countdown) finish(err error) {
	c.mtx.Lock()
	c.err = err
	c.mtx.Unlock()
}
