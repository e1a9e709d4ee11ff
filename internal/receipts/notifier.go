package receipts

import (
	"context"
	"encoding/json"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/farmgatehq/farmgate-backend/pkg/logger"
)

const publishTimeout = 15 * time.Second

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
}

// Notifier pushes settled receipts to the receipts topic. Publishing is best
// effort: the payment has already committed, so failures are logged and
// swallowed rather than bubbled back to the caller.
type Notifier struct {
	publisher publisher
	logg      *logger.Logger
}

// NewNotifier builds a notifier. A nil publisher yields a no-op notifier,
// used when pub/sub is disabled by configuration.
func NewNotifier(pub *gcppubsub.Publisher, logg *logger.Logger) *Notifier {
	n := &Notifier{logg: logg}
	if pub != nil {
		n.publisher = pub
	}
	return n
}

// Notify publishes the receipt artifact.
func (n *Notifier) Notify(ctx context.Context, receipt Receipt) {
	if n == nil || n.publisher == nil {
		return
	}

	payload, err := json.Marshal(receipt)
	if err != nil {
		n.logg.Error(ctx, "marshal receipt for publish", err)
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	result := n.publisher.Publish(publishCtx, &gcppubsub.Message{
		Data:        payload,
		OrderingKey: receipt.OrderID.String(),
		Attributes: map[string]string{
			"receipt_no": receipt.ReceiptNo,
			"order_id":   receipt.OrderID.String(),
			"issued_at":  receipt.IssuedAt.Format(time.RFC3339Nano),
		},
	})
	if _, err := result.Get(publishCtx); err != nil {
		ctx = n.logg.WithField(ctx, "receipt_no", receipt.ReceiptNo)
		n.logg.Error(ctx, "publish receipt", err)
	}
}
