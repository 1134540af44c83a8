package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(action, message, requestID string, details map[string]interface{})             {}
func (nopLogger) Debug(action, message, requestID string, details map[string]interface{})            {}
func (nopLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {}

type fakeOrderRepo struct {
	orders   map[int64]*domain.Order
	events   map[int64][]*domain.OrderStatusEvent
	nextID   int64
	lastList []domain.Status
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]*domain.Order),
		events: make(map[int64][]*domain.OrderStatusEvent),
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	r.nextID++
	order.ID = r.nextID
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, statuses []domain.Status) ([]*domain.Order, error) {
	r.lastList = statuses
	matched := []*domain.Order{}
	for _, order := range r.orders {
		for _, status := range statuses {
			if order.Status == status {
				matched = append(matched, order)
				break
			}
		}
	}
	return matched, nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, order *domain.Order, event *domain.OrderStatusEvent) error {
	if _, ok := r.orders[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.orders[order.ID] = order
	r.events[order.ID] = append(r.events[order.ID], event)
	return nil
}

func (r *fakeOrderRepo) ListEvents(ctx context.Context, orderID int64) ([]*domain.OrderStatusEvent, error) {
	return r.events[orderID], nil
}

type fakePromoRepo struct {
	codes map[string]*domain.PromoCode
}

func (r *fakePromoRepo) List(ctx context.Context) ([]*domain.PromoCode, error) { return nil, nil }

func (r *fakePromoRepo) FindByID(ctx context.Context, id int64) (*domain.PromoCode, error) {
	return nil, domain.ErrPromoCodeNotFound
}

func (r *fakePromoRepo) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	promo, ok := r.codes[strings.ToLower(code)]
	if !ok {
		return nil, domain.ErrPromoCodeNotFound
	}
	return promo, nil
}

func (r *fakePromoRepo) Create(ctx context.Context, promo *domain.PromoCode) error { return nil }
func (r *fakePromoRepo) Update(ctx context.Context, promo *domain.PromoCode) error { return nil }

type fakeCustomerRepo struct {
	recorded []string
	failWith error
}

func (r *fakeCustomerRepo) RecordOrder(ctx context.Context, user string, order *domain.Order) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.recorded = append(r.recorded, user)
	return nil
}

func (r *fakeCustomerRepo) FindProfile(ctx context.Context, user string) (*domain.CustomerProfile, error) {
	return nil, domain.ErrProfileNotFound
}

type fakePublisher struct {
	messages []interfaces.StatusChangeMessage
	failWith error
}

func (p *fakePublisher) PublishStatusChange(ctx context.Context, msg interfaces.StatusChangeMessage) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.messages = append(p.messages, msg)
	return nil
}

func newTestService(orderRepo *fakeOrderRepo, promoRepo *fakePromoRepo, customerRepo *fakeCustomerRepo, publisher *fakePublisher) *Service {
	svc := NewService(orderRepo, promoRepo, customerRepo, publisher, nopLogger{})
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func latteCommand() interfaces.CreateOrderCommand {
	return interfaces.CreateOrderCommand{
		Subtotal: decimal.RequireFromString("91.00"),
		Tax:      decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.RequireFromString("91.00"),
		Items: []interfaces.CreateOrderItemCommand{
			{Name: "Latte", Price: decimal.RequireFromString("45.50"), Quantity: 2},
		},
	}
}

func TestCreateOrderSnapshotsMoney(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})

	order, err := svc.CreateOrder(context.Background(), latteCommand())
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.Status != domain.StatusRequested {
		t.Errorf("status = %s, want %s", order.Status, domain.StatusRequested)
	}
	if order.TotalCents != 9100 {
		t.Errorf("total_cents = %d, want 9100", order.TotalCents)
	}
	if order.SubtotalCents != 9100 {
		t.Errorf("subtotal_cents = %d, want 9100", order.SubtotalCents)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(order.Items))
	}
	item := order.Items[0]
	if item.UnitPriceCents != 4550 {
		t.Errorf("unit_price_cents = %d, want 4550", item.UnitPriceCents)
	}
	if item.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", item.Quantity)
	}
	if len(orderRepo.orders) != 1 {
		t.Errorf("persisted orders = %d, want 1", len(orderRepo.orders))
	}
	if len(orderRepo.events[order.ID]) != 0 {
		t.Errorf("events on creation = %d, want 0", len(orderRepo.events[order.ID]))
	}
}

func TestCreateOrderUnknownPromoIgnored(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})

	cmd := latteCommand()
	cmd.PromoCode = "NOSUCHCODE"

	order, err := svc.CreateOrder(context.Background(), cmd)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.PromoCode != nil {
		t.Errorf("promo code = %v, want nil", order.PromoCode)
	}
}

func TestCreateOrderPromoMatchedCaseInsensitively(t *testing.T) {
	promoRepo := &fakePromoRepo{codes: map[string]*domain.PromoCode{
		"welcome10": {ID: 7, Code: "WELCOME10", DiscountPercentage: 10, IsValid: true},
	}}
	svc := newTestService(newFakeOrderRepo(), promoRepo, &fakeCustomerRepo{}, &fakePublisher{})

	cmd := latteCommand()
	cmd.PromoCode = "welcome10"

	order, err := svc.CreateOrder(context.Background(), cmd)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.PromoCode == nil || order.PromoCode.ID != 7 {
		t.Errorf("promo code = %v, want id 7", order.PromoCode)
	}
}

func TestCreateOrderInvalidStatusRejected(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})

	cmd := latteCommand()
	cmd.Status = "bogus"

	if _, err := svc.CreateOrder(context.Background(), cmd); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("CreateOrder() error = %v, want ErrInvalidStatus", err)
	}
	if len(orderRepo.orders) != 0 {
		t.Errorf("persisted orders = %d, want 0", len(orderRepo.orders))
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cmd *interfaces.CreateOrderCommand)
		wantErr error
	}{
		{
			name:    "negative total",
			mutate:  func(cmd *interfaces.CreateOrderCommand) { cmd.Total = decimal.RequireFromString("-1") },
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "no items",
			mutate:  func(cmd *interfaces.CreateOrderCommand) { cmd.Items = nil },
			wantErr: domain.ErrNoItems,
		},
		{
			name:    "zero quantity",
			mutate:  func(cmd *interfaces.CreateOrderCommand) { cmd.Items[0].Quantity = 0 },
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "blank item name",
			mutate:  func(cmd *interfaces.CreateOrderCommand) { cmd.Items[0].Name = "" },
			wantErr: domain.ErrEmptyItemName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeOrderRepo(), &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})
			cmd := latteCommand()
			tt.mutate(&cmd)
			if _, err := svc.CreateOrder(context.Background(), cmd); !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateOrder() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateOrderRecordsCustomerProfile(t *testing.T) {
	customerRepo := &fakeCustomerRepo{}
	svc := newTestService(newFakeOrderRepo(), &fakePromoRepo{}, customerRepo, &fakePublisher{})

	user := "amira"
	cmd := latteCommand()
	cmd.User = &user

	if _, err := svc.CreateOrder(context.Background(), cmd); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if len(customerRepo.recorded) != 1 || customerRepo.recorded[0] != "amira" {
		t.Errorf("recorded users = %v, want [amira]", customerRepo.recorded)
	}
}

// A failed profile upsert must not fail checkout: the order is committed first.
func TestCreateOrderSurvivesProfileFailure(t *testing.T) {
	customerRepo := &fakeCustomerRepo{failWith: errors.New("profile table unavailable")}
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, customerRepo, &fakePublisher{})

	user := "amira"
	cmd := latteCommand()
	cmd.User = &user

	if _, err := svc.CreateOrder(context.Background(), cmd); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if len(orderRepo.orders) != 1 {
		t.Errorf("persisted orders = %d, want 1", len(orderRepo.orders))
	}
}

func seedOrder(t *testing.T, svc *Service, repo *fakeOrderRepo) *domain.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), latteCommand())
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestUpdateStatusAppendsEventAndPublishes(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	publisher := &fakePublisher{}
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, publisher)
	order := seedOrder(t, svc, orderRepo)

	staff := "kitchen-1"
	updated, err := svc.UpdateStatus(context.Background(), interfaces.UpdateOrderStatusCommand{
		OrderID:   order.ID,
		Status:    "preparing",
		ChangedBy: &staff,
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if updated.Status != domain.StatusPreparing {
		t.Errorf("status = %s, want %s", updated.Status, domain.StatusPreparing)
	}

	events := orderRepo.events[order.ID]
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].FromStatus != domain.StatusRequested || events[0].ToStatus != domain.StatusPreparing {
		t.Errorf("event = %s -> %s, want REQUESTED -> PREPARING", events[0].FromStatus, events[0].ToStatus)
	}
	if events[0].ChangedBy == nil || *events[0].ChangedBy != "kitchen-1" {
		t.Errorf("changed_by = %v, want kitchen-1", events[0].ChangedBy)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("published messages = %d, want 1", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.OrderID != order.ID || msg.OldStatus != domain.StatusRequested || msg.NewStatus != domain.StatusPreparing {
		t.Errorf("message = %+v", msg)
	}
}

func TestUpdateStatusNoOpProducesNoEvents(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	publisher := &fakePublisher{}
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, publisher)
	order := seedOrder(t, svc, orderRepo)

	updated, err := svc.UpdateStatus(context.Background(), interfaces.UpdateOrderStatusCommand{
		OrderID: order.ID,
		Status:  "REQUESTED",
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != domain.StatusRequested {
		t.Errorf("status = %s, want unchanged REQUESTED", updated.Status)
	}
	if got := len(orderRepo.events[order.ID]); got != 0 {
		t.Errorf("events = %d, want 0", got)
	}
	if len(publisher.messages) != 0 {
		t.Errorf("published messages = %d, want 0", len(publisher.messages))
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})
	order := seedOrder(t, svc, orderRepo)

	_, err := svc.UpdateStatus(context.Background(), interfaces.UpdateOrderStatusCommand{
		OrderID: order.ID,
		Status:  "DONE",
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("UpdateStatus() error = %v, want ErrInvalidStatus", err)
	}
	if orderRepo.orders[order.ID].Status != domain.StatusRequested {
		t.Errorf("status mutated to %s on rejected update", orderRepo.orders[order.ID].Status)
	}
	if got := len(orderRepo.events[order.ID]); got != 0 {
		t.Errorf("events = %d, want 0", got)
	}
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})

	_, err := svc.UpdateStatus(context.Background(), interfaces.UpdateOrderStatusCommand{
		OrderID: 42,
		Status:  "READY",
	})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("UpdateStatus() error = %v, want ErrOrderNotFound", err)
	}
}

// The transition is committed before the notification goes out, so a broker
// failure must not surface to the caller.
func TestUpdateStatusSurvivesPublishFailure(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	publisher := &fakePublisher{failWith: errors.New("broker down")}
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, publisher)
	order := seedOrder(t, svc, orderRepo)

	updated, err := svc.UpdateStatus(context.Background(), interfaces.UpdateOrderStatusCommand{
		OrderID: order.ID,
		Status:  "CANCELLED",
	})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != domain.StatusCancelled {
		t.Errorf("status = %s, want CANCELLED", updated.Status)
	}
	if got := len(orderRepo.events[order.ID]); got != 1 {
		t.Errorf("events = %d, want 1", got)
	}
}

func TestListOrdersDefaultExcludesTerminal(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})

	if _, err := svc.ListOrders(context.Background(), interfaces.ListOrdersQuery{}); err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}

	want := domain.ActiveStatuses()
	if len(orderRepo.lastList) != len(want) {
		t.Fatalf("statuses queried = %v, want %v", orderRepo.lastList, want)
	}
	for i, status := range want {
		if orderRepo.lastList[i] != status {
			t.Errorf("statuses queried = %v, want %v", orderRepo.lastList, want)
			break
		}
	}
}

func TestListOrdersUnrecognizedFilterYieldsEmpty(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})
	seedOrder(t, svc, orderRepo)

	filter := "bogus,nope"
	orders, err := svc.ListOrders(context.Background(), interfaces.ListOrdersQuery{StatusFilter: &filter})
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("orders = %d, want 0", len(orders))
	}
	if len(orderRepo.lastList) != 0 {
		t.Errorf("statuses queried = %v, want none", orderRepo.lastList)
	}
}

func TestGetHistoryRequiresExistingOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})

	if _, err := svc.GetHistory(context.Background(), 99); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("GetHistory() error = %v, want ErrOrderNotFound", err)
	}
}

func TestGetHistoryOrdersEvents(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	svc := newTestService(orderRepo, &fakePromoRepo{}, &fakeCustomerRepo{}, &fakePublisher{})
	order := seedOrder(t, svc, orderRepo)

	for _, status := range []string{"PREPARING", "READY", "FULFILLED"} {
		if _, err := svc.UpdateStatus(context.Background(), interfaces.UpdateOrderStatusCommand{OrderID: order.ID, Status: status}); err != nil {
			t.Fatalf("UpdateStatus(%s) error = %v", status, err)
		}
	}

	events, err := svc.GetHistory(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	if events[0].FromStatus != domain.StatusRequested || events[2].ToStatus != domain.StatusFulfilled {
		t.Errorf("history = %s...%s, want REQUESTED...FULFILLED", events[0].FromStatus, events[2].ToStatus)
	}
}
