package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	bookmodel "homelibrary-backend/internal/domains/book/model"
)

// Redis pub/sub channels. The transfer channel is shared by every worker on
// the deployment, so consumers must match completions by correlation id.
const (
	CatalogChannel  = "homelibrary:catalog"
	TransferChannel = "homelibrary:transfers"
)

// Op là loại delta event trên catalog.
type Op string

const (
	OpAdded   Op = "added"
	OpChanged Op = "changed"
	OpRemoved Op = "removed"
)

// CatalogDelta describes one change to the books collection.
// Book is nil for removals.
type CatalogDelta struct {
	Op     Op              `json:"op"`
	BookID string          `json:"book_id"`
	Book   *bookmodel.Book `json:"book,omitempty"`
}

// TransferDone announces the terminal status of a book file transfer.
type TransferDone struct {
	CorrelationID string `json:"correlation_id"`
	BookID        string `json:"book_id"`
	Successful    bool   `json:"successful"`
	Detail        string `json:"detail,omitempty"`
}

// Bus publishes and subscribes domain events over Redis pub/sub.
// Đây là analogue của realtime child-event feed: repos publish deltas
// khi ghi, feed subscriber nhận và reconcile snapshot.
type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

// PublishCatalog gửi một delta lên catalog channel.
func (b *Bus) PublishCatalog(ctx context.Context, delta CatalogDelta) error {
	payload, err := json.Marshal(delta)
	if err != nil {
		return fmt.Errorf("marshal catalog delta: %w", err)
	}
	if err := b.client.Publish(ctx, CatalogChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish catalog delta: %w", err)
	}
	return nil
}

// PublishTransferDone gửi completion event lên transfer channel.
func (b *Bus) PublishTransferDone(ctx context.Context, done TransferDone) error {
	payload, err := json.Marshal(done)
	if err != nil {
		return fmt.Errorf("marshal transfer event: %w", err)
	}
	if err := b.client.Publish(ctx, TransferChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish transfer event: %w", err)
	}
	return nil
}

// SubscribeCatalog delivers decoded deltas until ctx is cancelled.
// Decode errors are logged and the event dropped; connection errors close
// the channel and the transport's own reconnect takes over on resubscribe.
func (b *Bus) SubscribeCatalog(ctx context.Context) <-chan CatalogDelta {
	sub := b.client.Subscribe(ctx, CatalogChannel)
	out := make(chan CatalogDelta)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var delta CatalogDelta
				if err := json.Unmarshal([]byte(msg.Payload), &delta); err != nil {
					log.Error().Err(err).Msg("Bad catalog delta payload")
					continue
				}
				select {
				case out <- delta:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// SubscribeTransfers delivers transfer completion events until ctx is cancelled.
func (b *Bus) SubscribeTransfers(ctx context.Context) <-chan TransferDone {
	sub := b.client.Subscribe(ctx, TransferChannel)
	out := make(chan TransferDone)

	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				var done TransferDone
				if err := json.Unmarshal([]byte(msg.Payload), &done); err != nil {
					log.Error().Err(err).Msg("Bad transfer event payload")
					continue
				}
				select {
				case out <- done:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
