package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type Service struct {
	orderRepo    interfaces.OrderRepository
	promoRepo    interfaces.PromoRepository
	customerRepo interfaces.CustomerRepository
	publisher    interfaces.NotificationPublisher
	logger       logger.Logger
	now          func() time.Time
}

func NewService(
	orderRepo interfaces.OrderRepository,
	promoRepo interfaces.PromoRepository,
	customerRepo interfaces.CustomerRepository,
	publisher interfaces.NotificationPublisher,
	lgr logger.Logger,
) *Service {
	return &Service{
		orderRepo:    orderRepo,
		promoRepo:    promoRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       lgr,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder persists a checkout request as an order snapshot. Totals are
// taken from the client as-is; an unknown promo code is ignored rather than
// rejected, so the order still goes through without the link.
func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	status := domain.StatusRequested
	if cmd.Status != "" {
		parsed, err := domain.ParseStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	draft := domain.OrderDraft{
		User:            cmd.User,
		Status:          status,
		Subtotal:        cmd.Subtotal,
		Tax:             cmd.Tax,
		Discount:        cmd.Discount,
		Total:           cmd.Total,
		CustomerName:    cmd.CustomerName,
		CustomerPhone:   cmd.CustomerPhone,
		CustomerEmail:   cmd.CustomerEmail,
		CustomerAddress: cmd.CustomerAddress,
		CustomerCity:    cmd.CustomerCity,
		PaymentMethod:   cmd.PaymentMethod,
		Notes:           cmd.Notes,
	}
	for _, item := range cmd.Items {
		draft.Items = append(draft.Items, domain.OrderItemDraft{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	order, err := domain.NewOrder(draft, s.now())
	if err != nil {
		return nil, err
	}

	if cmd.PromoCode != "" {
		promo, err := s.promoRepo.FindByCode(ctx, cmd.PromoCode)
		switch {
		case err == nil:
			order.PromoCode = promo
		case errors.Is(err, domain.ErrPromoCodeNotFound):
			s.logger.Debug("promo_code_ignored", "Unknown promo code on checkout", "", map[string]interface{}{
				"code": cmd.PromoCode,
			})
		default:
			return nil, fmt.Errorf("failed to look up promo code: %w", err)
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("order_create_failed", "Failed to persist order", "", nil, err)
		return nil, err
	}

	s.logger.Info("order_created", fmt.Sprintf("Order %d created", order.ID), "", map[string]interface{}{
		"order_id":    order.ID,
		"total_cents": order.TotalCents,
		"items":       len(order.Items),
	})

	// Profile upkeep is a denormalized convenience; a failure here must not
	// undo an already committed order.
	if order.User != nil {
		if err := s.customerRepo.RecordOrder(ctx, *order.User, order); err != nil {
			s.logger.Error("profile_update_failed", "Failed to record order on customer profile", "", map[string]interface{}{
				"order_id": order.ID,
				"user":     *order.User,
			}, err)
		}
	}

	return order, nil
}

// UpdateStatus moves an order to a recognized status. An unrecognized value
// is rejected before anything is touched; a no-op change (same status)
// persists nothing and appends no audit event.
func (s *Service) UpdateStatus(ctx context.Context, cmd interfaces.UpdateOrderStatusCommand) (*domain.Order, error) {
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	event := order.Transition(status, cmd.ChangedBy, cmd.Note, s.now())
	if event == nil {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, event); err != nil {
		s.logger.Error("status_update_failed", "Failed to persist status transition", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
		return nil, err
	}

	s.logger.Info("status_changed", fmt.Sprintf("Order %d: %s -> %s", order.ID, event.FromStatus, event.ToStatus), "",
		map[string]interface{}{
			"order_id":   order.ID,
			"old_status": event.FromStatus,
			"new_status": event.ToStatus,
		})

	// Best-effort notification; the transition is already committed.
	changedBy := ""
	if event.ChangedBy != nil {
		changedBy = *event.ChangedBy
	}
	msg := interfaces.StatusChangeMessage{
		OrderID:   order.ID,
		OldStatus: event.FromStatus,
		NewStatus: event.ToStatus,
		ChangedBy: changedBy,
		ChangedAt: event.ChangedAt,
	}
	if err := s.publisher.PublishStatusChange(ctx, msg); err != nil {
		s.logger.Error("notification_publish_failed", "Failed to publish status change", "", map[string]interface{}{
			"order_id": order.ID,
		}, err)
	}

	return order, nil
}

// ListOrders returns the order feed. Without a filter, terminal orders
// (fulfilled, cancelled) are excluded; an explicit filter containing no
// recognized status yields an empty list rather than an error.
func (s *Service) ListOrders(ctx context.Context, query interfaces.ListOrdersQuery) ([]*domain.Order, error) {
	var statuses []domain.Status
	if query.StatusFilter == nil {
		statuses = domain.ActiveStatuses()
	} else {
		statuses = domain.ParseStatusFilter(*query.StatusFilter)
	}
	return s.orderRepo.List(ctx, statuses)
}

func (s *Service) GetHistory(ctx context.Context, orderID int64) ([]*domain.OrderStatusEvent, error) {
	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orderRepo.ListEvents(ctx, orderID)
}

func (s *Service) GetProfile(ctx context.Context, user string) (*domain.CustomerProfile, error) {
	return s.customerRepo.FindProfile(ctx, user)
}
