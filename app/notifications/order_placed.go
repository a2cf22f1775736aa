// Package notifications delivers customer-facing messages after a workflow
// commits. Delivery is best-effort: a gateway failure is logged and
// dropped, never surfaced to the request that triggered it and never
// retried.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shashiranjanraj/savannah/app/models"
	"github.com/shashiranjanraj/savannah/pkg/metrics"
	"github.com/shashiranjanraj/savannah/pkg/queue"
	"github.com/shashiranjanraj/savannah/pkg/sms"
)

// JobOrderPlaced is the queue name for the order confirmation SMS.
const JobOrderPlaced = "notifications.order_placed"

// OrderPlacedJob sends the order confirmation SMS. The exported fields are
// the serialised payload; the dependencies are filled in by the factory the
// Notifier registers.
type OrderPlacedJob struct {
	OrderID      uint    `json:"order_id"`
	CustomerName string  `json:"customer_name"`
	Phone        string  `json:"phone"`
	Item         string  `json:"item"`
	Quantity     int     `json:"quantity"`
	Amount       float64 `json:"amount"`

	gateway  sms.Gateway
	senderID string
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// Handle formats and sends the confirmation. It always returns nil: the
// order is already committed, so a failed send is logged and forgotten
// rather than retried.
func (j *OrderPlacedJob) Handle() error {
	message := fmt.Sprintf(
		"Hi %s! Your order of %d x %s has been placed. Total: $%.2f",
		j.CustomerName, j.Quantity, j.Item, j.Amount,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if _, err := j.gateway.Send(ctx, message, []string{j.Phone}, j.senderID); err != nil {
		j.log.Error("notifications: order confirmation failed",
			"order_id", j.OrderID, "phone", j.Phone, "error", err)
		j.metrics.SMSSends.WithLabelValues("failed").Inc()
		return nil
	}

	j.log.Info("notifications: order confirmation sent",
		"order_id", j.OrderID, "phone", j.Phone)
	j.metrics.SMSSends.WithLabelValues("sent").Inc()
	return nil
}

// Notifier enqueues notification jobs and owns their dependencies.
type Notifier struct {
	queue *queue.Manager
	log   *slog.Logger
}

// NewNotifier registers the notification jobs on q and returns a Notifier
// that dispatches them.
func NewNotifier(q *queue.Manager, gateway sms.Gateway, senderID string, log *slog.Logger, m *metrics.Metrics) *Notifier {
	q.Register(JobOrderPlaced, func() queue.Job {
		return &OrderPlacedJob{
			gateway:  gateway,
			senderID: senderID,
			log:      log,
			metrics:  m,
		}
	})
	return &Notifier{queue: q, log: log}
}

// OrderPlaced schedules the confirmation SMS for a committed order. Enqueue
// failure is logged and swallowed for the same reason send failure is: the
// caller's order already committed.
func (n *Notifier) OrderPlaced(order models.Order, customer models.Customer) {
	job := &OrderPlacedJob{
		OrderID:      order.ID,
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		Item:         order.Item,
		Quantity:     order.Quantity,
		Amount:       order.Amount,
	}
	if err := n.queue.Dispatch(JobOrderPlaced, job); err != nil {
		n.log.Error("notifications: enqueue order confirmation failed",
			"order_id", order.ID, "error", err)
	}
}
