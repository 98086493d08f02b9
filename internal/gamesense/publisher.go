package gamesense

import (
	"context"
	"fmt"
	"log/slog"

	"tools.zach/dev/tarkovtime/internal/clock"
)

// ///////////////////////////////////////////////
// Setup
// ///////////////////////////////////////////////

// Setup registers the game and binds its event, in that order. It stops at
// the first failure.
func (c *Client) Setup(ctx context.Context, reg Registration) error {
	if err := c.Register(ctx, reg.Metadata); err != nil {
		return fmt.Errorf("register game: %w", err)
	}
	if err := c.BindEvent(ctx, reg.Binding); err != nil {
		return fmt.Errorf("bind game event: %w", err)
	}
	return nil
}

// ///////////////////////////////////////////////
// Publisher
// ///////////////////////////////////////////////

// Publisher ties a [Client] to one registered game so callers deal in clock
// readouts rather than wire types.
type Publisher struct {
	client *Client
	reg    Registration
}

// NewPublisher returns a Publisher for the game described by reg. The game
// must already be set up with [Client.Setup].
func NewPublisher(client *Client, reg Registration) *Publisher {
	return &Publisher{client: client, reg: reg}
}

// Publish sends the clock readouts as a TIME event.
func (p *Publisher) Publish(ctx context.Context, t clock.Time) error {
	return p.client.SendEvent(ctx, TimeEvent(p.reg.Metadata.Game, t))
}

// Teardown removes the game from the engine.
func (p *Publisher) Teardown(ctx context.Context) error {
	return p.client.Remove(ctx, Game{Game: p.reg.Metadata.Game})
}

// Relocate points the client at a new engine address and repeats the
// startup registration there.
func (p *Publisher) Relocate(ctx context.Context, address string) error {
	old := p.client.BaseURL()
	p.client.SetAddress(address)
	slog.Info("engine address changed", "old", old, "new", p.client.BaseURL())
	return p.client.Setup(ctx, p.reg)
}
