package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/providers"
	redisclient "github.com/navina/travelguide/internal/infrastructure/clients/redis"
)

// RedisEventBus carries conversation events over Redis Pub/Sub. Each
// channel holds one Redis subscription shared by all local subscribers;
// it is closed when the last subscriber leaves.
type RedisEventBus struct {
	client  *redisclient.Client
	local   *fanout
	mu      sync.Mutex
	pubsubs map[string]*redis.PubSub
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:  client,
		local:   newFanout(),
		pubsubs: make(map[string]*redis.PubSub),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Publish encodes event as JSON and publishes it on channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.ConversationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event on %s: %w", channel, err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("event_type", string(event.EventType)).Msg("published conversation event")
	return nil
}

// Subscribe returns a stream of events on channel that closes once ctx is done
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ConversationEvent, error) {
	b.mu.Lock()
	if _, ok := b.pubsubs[channel]; !ok {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.pubsubs[channel] = pubsub
		go b.receive(channel, pubsub)
	}
	events, n := b.local.add(channel)
	b.mu.Unlock()

	log.Debug().Str("channel", channel).Int("subscribers", n).Msg("subscribed to channel")

	go func() {
		<-ctx.Done()
		b.leave(channel, events)
	}()
	return events, nil
}

func (b *RedisEventBus) receive(channel string, pubsub *redis.PubSub) {
	defer b.release(channel, pubsub)

	messages := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			event, err := decodeEvent(msg.Payload)
			if err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("skipping malformed conversation event")
				continue
			}
			if _, dropped := b.local.broadcast(channel, event); dropped > 0 {
				log.Warn().Str("channel", channel).Str("event_id", event.ID).Int("dropped", dropped).Msg("subscriber buffer full, dropping event")
			}
		}
	}
}

func decodeEvent(payload string) (*entities.ConversationEvent, error) {
	var event entities.ConversationEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation event: %w", err)
	}
	return &event, nil
}

// leave drops one subscriber and releases the Redis subscription when it
// was the last one on channel.
func (b *RedisEventBus) leave(channel string, events chan *entities.ConversationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.local.remove(channel, events) {
		return
	}
	if pubsub, ok := b.pubsubs[channel]; ok {
		_ = pubsub.Close()
		delete(b.pubsubs, channel)
		log.Debug().Str("channel", channel).Msg("closed subscription")
	}
}

// release tears down channel after its receive loop ends, unless a newer
// subscription has already replaced pubsub.
func (b *RedisEventBus) release(channel string, pubsub *redis.PubSub) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pubsubs[channel] != pubsub {
		return
	}
	if err := b.closeChannelLocked(channel); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to clean up channel")
	}
}

func (b *RedisEventBus) closeChannel(channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closeChannelLocked(channel)
}

// closeChannelLocked requires b.mu
func (b *RedisEventBus) closeChannelLocked(channel string) error {
	b.local.closeChannel(channel)

	pubsub, ok := b.pubsubs[channel]
	if !ok {
		return nil
	}
	delete(b.pubsubs, channel)
	if err := pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	return nil
}

// Unsubscribe closes every local subscriber of channel
func (b *RedisEventBus) Unsubscribe(_ context.Context, channel string) error {
	return b.closeChannel(channel)
}

// Close stops delivery and closes all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	channels := make([]string, 0, len(b.pubsubs))
	for channel := range b.pubsubs {
		channels = append(channels, channel)
	}
	b.mu.Unlock()

	var errs []error
	for _, channel := range channels {
		if err := b.closeChannel(channel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
