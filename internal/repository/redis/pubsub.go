package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// BidsPubSub fans out "bids changed" notifications after committed lifecycle
// transitions so dashboards watching an event can refresh.
type BidsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewBidsPubSub(rdb *redis.Client) *BidsPubSub {
	return &BidsPubSub{
		rdb:     rdb,
		channel: ChannelBidsChanged(),
	}
}

type bidsChangedMsg struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`
	TsUnix  int64  `json:"ts_unix"`
}

func (p *BidsPubSub) PublishBidsChanged(ctx context.Context, eventID string) error {
	msg := bidsChangedMsg{
		Type:    "bids_changed",
		EventID: eventID,
		TsUnix:  time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *BidsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, eventID string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg bidsChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &msg); err == nil &&
				msg.EventID != "" {
				handler(ctx, msg.EventID)
			}
		}
	}
}
