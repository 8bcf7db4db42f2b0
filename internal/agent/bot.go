// Package agent runs headless players against the websocket gateway.
// A bot speaks the same protocol as a human client: it dials /ws,
// reads snapshots, and answers with commands. Useful for smoke runs
// and for keeping secondary instances alive during soak tests.
package agent

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"delve-server/internal/domain"
	"delve-server/pkg/api"
	"delve-server/pkg/logger"
)

// Options configures one bot.
type Options struct {
	// URL is the full websocket endpoint, player query included,
	// e.g. ws://127.0.0.1:8080/ws?player=bot-1.
	URL string

	// Name tags the bot's log entries.
	Name string

	// Seed drives the exploration dice.
	Seed int64

	// Cadence is the pause between commands. Zero means 100ms.
	Cadence time.Duration

	// DialTimeout bounds each connection attempt. Zero means 5s.
	DialTimeout time.Duration
}

// Bot is one headless client.
type Bot struct {
	opts Options
	rng  *rand.Rand

	mu     sync.Mutex
	latest *api.ServerResponse
}

func New(opts Options) *Bot {
	if opts.Cadence <= 0 {
		opts.Cadence = 100 * time.Millisecond
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}
	return &Bot{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}
}

// Run dials the gateway and plays until the run ends or ctx closes.
// The server may still be booting when a bot starts, so the dial
// retries with a short backoff.
func (b *Bot) Run(ctx context.Context) error {
	conn, err := b.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Cancelling ctx closes the socket, which unblocks the read loop.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	readDone := make(chan error, 1)
	go b.readLoop(conn, readDone)

	if err := conn.WriteJSON(api.ClientCommand{Action: api.ActionInit}); err != nil {
		return err
	}

	ticker := time.NewTicker(b.opts.Cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readDone:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-ticker.C:
			snap := b.snapshot()
			if snap == nil {
				continue
			}
			if snap.State == api.StateDead {
				b.logger().WithField("depth", snap.Depth).Info("Bot run ended.")
				return nil
			}
			cmd, ok := Decide(*snap, b.rng)
			if !ok {
				continue
			}
			if err := conn.WriteJSON(cmd); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (b *Bot) dial(ctx context.Context) (*websocket.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < 20; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, b.opts.DialTimeout)
		conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, b.opts.URL, nil)
		cancel()
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err == nil {
			b.logger().Info("Bot connected.")
			return conn, nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	return nil, lastErr
}

// readLoop keeps only the newest snapshot, so decisions never act on a
// backlog of stale frames.
func (b *Bot) readLoop(conn *websocket.Conn, done chan<- error) {
	for {
		var snap api.ServerResponse
		if err := conn.ReadJSON(&snap); err != nil {
			done <- err
			return
		}
		b.mu.Lock()
		b.latest = &snap
		b.mu.Unlock()
	}
}

func (b *Bot) snapshot() *api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

func (b *Bot) logger() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"system": "agent",
		"bot":    b.opts.Name,
	})
}

// Decide picks the bot's next command from a snapshot: quaff a carried
// potion when hurt, close on the nearest visible monster, otherwise
// stumble somewhere new. The second result is false when there is
// nothing worth sending.
func Decide(snap api.ServerResponse, rng *rand.Rand) (api.ClientCommand, bool) {
	if snap.State != api.StatePlaying {
		return api.ClientCommand{}, false
	}

	if key, hurt := wantsPotion(snap); hurt {
		return command(domain.ActionUse, api.UsePayload{Key: key}), true
	}

	self, ok := findSelf(snap)
	if !ok {
		return api.ClientCommand{}, false
	}

	if dx, dy, found := nearestMonsterStep(snap, self); found {
		return command(domain.ActionBump, api.DirectionPayload{Dx: dx, Dy: dy}), true
	}

	dir := domain.CompassDirs[rng.Intn(len(domain.CompassDirs))]
	return command(domain.ActionBump, api.DirectionPayload{Dx: dir[0], Dy: dir[1]}), true
}

// wantsPotion reports the key of a carried health potion once HP has
// fallen to half or less.
func wantsPotion(snap api.ServerResponse) (string, bool) {
	if snap.Stats == nil || snap.Inventory == nil {
		return "", false
	}
	if snap.Stats.HP*2 > snap.Stats.MaxHP {
		return "", false
	}
	for _, slot := range snap.Inventory.Slots {
		if slot.Name == "health potion" {
			return slot.Key, true
		}
	}
	return "", false
}

func findSelf(snap api.ServerResponse) (api.EntityView, bool) {
	for _, e := range snap.Entities {
		if e.ID == snap.PlayerID {
			return e, true
		}
	}
	return api.EntityView{}, false
}

// nearestMonsterStep returns the unit step toward the closest living
// monster in sight.
func nearestMonsterStep(snap api.ServerResponse, self api.EntityView) (int, int, bool) {
	best := -1
	var target api.EntityView
	for _, e := range snap.Entities {
		if e.Kind != string(domain.KindMonster) {
			continue
		}
		if e.Stats == nil || e.Stats.IsDead {
			continue
		}
		d := chebyshev(self.Pos.X, self.Pos.Y, e.Pos.X, e.Pos.Y)
		if best == -1 || d < best {
			best = d
			target = e
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return sign(target.Pos.X - self.Pos.X), sign(target.Pos.Y - self.Pos.Y), true
}

func command(kind domain.ActionKind, payload any) api.ClientCommand {
	raw, _ := json.Marshal(payload)
	return api.ClientCommand{Action: kind.String(), Payload: raw}
}

func chebyshev(x1, y1, x2, y2 int) int {
	dx, dy := abs(x2-x1), abs(y2-y1)
	if dx > dy {
		return dx
	}
	return dy
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
