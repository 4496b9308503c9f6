package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/observability/statsd"
)

// OrderStore is the purchase-order persistence the dispatcher needs: one
// read up front, one idempotent marker write after a successful dispatch.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (*model.PurchaseOrder, error)
	MarkNotified(ctx context.Context, id string) error
}

// ContactStore resolves the dispatch targets for a supplier.
type ContactStore interface {
	ListDispatchable(ctx context.Context, supplierID string) ([]model.SupplierContact, error)
}

// MessageRenderer produces the outbound message text for an order.
type MessageRenderer interface {
	Render(ctx context.Context, category model.TemplateCategory, order *model.PurchaseOrder) (string, error)
}

// MessagePusher delivers one message to one channel, single attempt.
type MessagePusher interface {
	Push(ctx context.Context, channelID, text string) error
}

// BroadcastService renders an order notification and pushes it to every
// dispatchable contact of a supplier concurrently. One delivery failing
// never affects its siblings; the caller gets the full outcome list and
// decides what partial success means.
type BroadcastService struct {
	orders   OrderStore
	contacts ContactStore
	renderer MessageRenderer
	pusher   MessagePusher
	logger   *slog.Logger
	metrics  statsd.Sink
}

// BroadcastServiceOptions configures the broadcast service.
type BroadcastServiceOptions struct {
	Orders   OrderStore
	Contacts ContactStore
	Renderer MessageRenderer
	// Pusher is nil when the chat gateway is not configured; every
	// broadcast is then rejected up front as an operator-visible error.
	Pusher  MessagePusher
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// NewBroadcastService creates a new broadcast service.
func NewBroadcastService(opts BroadcastServiceOptions) *BroadcastService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BroadcastService{
		orders:   opts.Orders,
		contacts: opts.Contacts,
		renderer: opts.Renderer,
		pusher:   opts.Pusher,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// BroadcastRequest identifies the supplier, the order to announce, and the
// template category. An empty category means the default.
type BroadcastRequest struct {
	SupplierID string
	OrderID    string
	Category   model.TemplateCategory
}

// BroadcastResult aggregates one dispatch: how many deliveries succeeded,
// how many contacts were targeted, and the per-contact outcomes.
type BroadcastResult struct {
	SentTo        int
	TotalContacts int
	Outcomes      []model.DeliveryOutcome
}

// Broadcast resolves recipients, renders the message, fans the push out to
// all recipients, and stamps the order's sent marker when at least one
// delivery succeeded. The call as a whole succeeds even when every
// individual delivery failed; only lookup and configuration problems reject
// the request.
func (s *BroadcastService) Broadcast(ctx context.Context, req BroadcastRequest) (*BroadcastResult, error) {
	if s.pusher == nil {
		return nil, apperrors.Configuration("chat gateway is not configured")
	}

	category := req.Category
	if category == "" {
		category = model.TemplateCategoryDefault
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ListDispatchable(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, apperrors.NotFoundf("no active recipients for supplier %s", req.SupplierID)
	}

	message, err := s.renderer.Render(ctx, category, order)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcomes := s.dispatch(ctx, message, contacts)
	elapsed := time.Since(start)

	// A platform deadline that truncated the fan-out is the request's
	// failure, not the recipients'.
	if ctx.Err() != nil {
		s.logger.ErrorContext(ctx, "broadcast interrupted before all deliveries settled",
			"order_id", order.ID, "error", ctx.Err())
		return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeInternal, "broadcast interrupted")
	}

	successCount := model.SuccessCount(outcomes)
	s.logger.InfoContext(ctx, "broadcast dispatched",
		"order_id", order.ID,
		"supplier_id", req.SupplierID,
		"contacts_total", len(contacts),
		"contacts_success", successCount,
		"duration_ms", elapsed.Milliseconds())
	s.emitDispatchMetrics(len(contacts), successCount, elapsed)

	if successCount >= 1 {
		// Not transactional with the dispatch: a crash right here leaves
		// the marker unset even though messages went out. The write is an
		// idempotent set-to-true, so a later re-dispatch converges.
		if markErr := s.orders.MarkNotified(ctx, order.ID); markErr != nil {
			s.logger.ErrorContext(ctx, "failed to record sent marker",
				"order_id", order.ID, "error", markErr)
		}
	}

	return &BroadcastResult{
		SentTo:        successCount,
		TotalContacts: len(contacts),
		Outcomes:      outcomes,
	}, nil
}

// dispatch pushes the message to every contact concurrently and joins all
// outcomes. Exactly one outcome per contact, delivery errors contained to
// their own slot.
func (s *BroadcastService) dispatch(
	ctx context.Context,
	message string,
	contacts []model.SupplierContact,
) []model.DeliveryOutcome {
	outcomes := make([]model.DeliveryOutcome, len(contacts))

	// A plain group, not WithContext: one failed delivery must never
	// cancel its siblings.
	var g errgroup.Group
	for i, contact := range contacts {
		g.Go(func() error {
			outcomes[i] = s.deliver(ctx, message, contact)
			return nil
		})
	}
	// Tasks never return errors; Wait is purely the join barrier.
	_ = g.Wait()

	return outcomes
}

func (s *BroadcastService) deliver(
	ctx context.Context,
	message string,
	contact model.SupplierContact,
) model.DeliveryOutcome {
	outcome := model.DeliveryOutcome{ContactID: contact.ID}

	if !contact.Dispatchable() {
		// The resolver filters these out; guard anyway so a stale slice
		// cannot produce a push to an empty channel.
		outcome.Error = "contact has no dispatch channel"
		return outcome
	}

	if err := s.pusher.Push(ctx, *contact.ChannelID, message); err != nil {
		s.logger.WarnContext(ctx, "delivery failed",
			"contact_id", contact.ID, "error", err)
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Succeeded = true
	return outcome
}

func (s *BroadcastService) emitDispatchMetrics(total, success int, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}

	result := "full"
	switch {
	case success == 0:
		result = "none"
	case success < total:
		result = "partial"
	}
	tags := map[string]string{"result": result}

	s.metrics.Count("broadcast.dispatch", 1, tags)
	s.metrics.Count("broadcast.sent", int64(success), nil)
	s.metrics.Timing("broadcast.duration", elapsed, tags)
}
