package bankfeed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/franchisely/franchise-backend/internal/bank"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

type ingestor interface {
	Ingest(ctx context.Context, input bank.IngestInput) (bank.IngestResult, error)
}

// transferEvent is the wire shape the bank feed publishes per transfer.
type transferEvent struct {
	ExternalTxID  string `json:"external_tx_id"`
	Amount        int64  `json:"amount"`
	Memo          string `json:"memo"`
	DepositorName string `json:"depositor_name"`
	OccurredAt    string `json:"occurred_at"`
}

// Consumer drains bank transfer events from Pub/Sub and feeds them into
// the ingestion service. Ingest is idempotent on the external id, so
// redelivered messages resolve as duplicates instead of double credits.
type Consumer struct {
	ingest       ingestor
	subscription *pubsub.Subscriber
	logg         *logger.Logger
	now          func() time.Time
}

// NewConsumer constructs a consumer that watches the provided subscription.
func NewConsumer(ingest ingestor, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if ingest == nil {
		return nil, errors.New("bank ingestion service is required")
	}
	if subscription == nil {
		return nil, errors.New("bank feed subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		ingest:       ingest,
		subscription: subscription,
		logg:         logg,
		now:          time.Now,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.ID, msg.Data)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, messageID string, data []byte) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{"message_id": messageID})

	var event transferEvent
	if err := json.Unmarshal(data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal bank transfer event", err)
		return processResult{ack: true}
	}

	if strings.TrimSpace(event.ExternalTxID) == "" {
		c.logg.Error(logCtx, "bank transfer event missing external tx id", errors.New("empty external_tx_id"))
		return processResult{ack: true}
	}

	occurredAt := c.now().UTC()
	if event.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, event.OccurredAt)
		if err != nil {
			c.logg.Warn(logCtx, "bank transfer event has unparsable occurred_at, using receive time")
		} else {
			occurredAt = parsed.UTC()
		}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"external_tx_id": event.ExternalTxID,
		"amount":         event.Amount,
	})

	result, err := c.ingest.Ingest(logCtx, bank.IngestInput{
		ExternalTxID:  event.ExternalTxID,
		Amount:        event.Amount,
		Memo:          event.Memo,
		DepositorName: event.DepositorName,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			c.logg.Error(logCtx, "bank transfer event rejected", err)
			return processResult{ack: true}
		}
		c.logg.Error(logCtx, "failed to ingest bank transfer event", err)
		return processResult{nack: true}
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"duplicate": result.Duplicate,
		"matched":   result.Matched,
	})
	c.logg.Info(logCtx, "bank transfer event processed")
	return processResult{ack: true}
}
