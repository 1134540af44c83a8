package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `
	o.id, o.user_name, o.status, o.created_at, o.updated_at,
	o.subtotal_cents, o.tax_cents, o.total_cents, o.discount_egp::text,
	o.customer_name, o.customer_phone, o.customer_email, o.customer_address,
	o.customer_city, o.payment_method, o.notes,
	p.id, p.code, p.description, p.discount_percentage, p.is_valid,
	p.max_uses, p.times_redeemed, p.expires_at
`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var promoID *int64
	if order.PromoCode != nil {
		promoID = &order.PromoCode.ID
	}

	query := `
		INSERT INTO orders (user_name, status, created_at, updated_at,
		                    subtotal_cents, tax_cents, total_cents, discount_egp,
		                    promo_code_id, customer_name, customer_phone, customer_email,
		                    customer_address, customer_city, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.User, order.Status, order.CreatedAt, order.UpdatedAt,
		order.SubtotalCents, order.TaxCents, order.TotalCents, order.DiscountEGP.StringFixed(2),
		promoID, order.CustomerName, order.CustomerPhone, order.CustomerEmail,
		order.CustomerAddress, order.CustomerCity, order.PaymentMethod, order.Notes,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		itemQuery := `
			INSERT INTO order_items (order_id, menu_item_name, unit_price_cents, quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].MenuItemName, order.Items[i].UnitPriceCents, order.Items[i].Quantity,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN promo_codes p ON p.id = o.promo_code_id
		WHERE o.id = $1
	`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	items, err := loadOrderItems(ctx, r.db, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, statuses []domain.Status) ([]*domain.Order, error) {
	// An explicit filter that matched nothing recognized yields an empty
	// result set, not an error.
	if len(statuses) == 0 {
		return []*domain.Order{}, nil
	}

	filter := make([]string, len(statuses))
	for i, s := range statuses {
		filter[i] = string(s)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders o
		LEFT JOIN promo_codes p ON p.id = o.promo_code_id
		WHERE o.status = ANY($1)
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	var ids []int64
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := loadOrderItems(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order, event *domain.OrderStatusEvent) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		order.Status, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO order_status_events (order_id, from_status, to_status, changed_by, changed_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, event.OrderID, event.FromStatus, event.ToStatus, event.ChangedBy, event.ChangedAt, event.Note).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to append status event: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) ListEvents(ctx context.Context, orderID int64) ([]*domain.OrderStatusEvent, error) {
	query := `
		SELECT id, order_id, from_status, to_status, changed_by, changed_at, note
		FROM order_status_events
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status events: %w", err)
	}
	defer rows.Close()

	var events []*domain.OrderStatusEvent
	for rows.Next() {
		var ev domain.OrderStatusEvent
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.FromStatus, &ev.ToStatus, &ev.ChangedBy, &ev.ChangedAt, &ev.Note); err != nil {
			return nil, fmt.Errorf("failed to scan status event: %w", err)
		}
		events = append(events, &ev)
	}

	return events, rows.Err()
}

func loadOrderItems(ctx context.Context, db DB, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, menu_item_name, unit_price_cents, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemName, &item.UnitPriceCents, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	return items, rows.Err()
}

// scanOrder scans one row of orderColumns, including the left-joined promo
// code, into a domain order.
func scanOrder(row Row) (*domain.Order, error) {
	var (
		order       domain.Order
		discount    string
		promoID     *int64
		promoCode   *string
		promoDesc   *string
		promoPct    *int
		promoValid  *bool
		promoMax    *int
		promoUses   *int
		promoExpiry *time.Time
	)

	err := row.Scan(
		&order.ID, &order.User, &order.Status, &order.CreatedAt, &order.UpdatedAt,
		&order.SubtotalCents, &order.TaxCents, &order.TotalCents, &discount,
		&order.CustomerName, &order.CustomerPhone, &order.CustomerEmail, &order.CustomerAddress,
		&order.CustomerCity, &order.PaymentMethod, &order.Notes,
		&promoID, &promoCode, &promoDesc, &promoPct, &promoValid,
		&promoMax, &promoUses, &promoExpiry,
	)
	if err != nil {
		return nil, err
	}

	order.DiscountEGP, err = decimal.NewFromString(discount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored discount: %w", err)
	}

	if promoID != nil {
		order.PromoCode = &domain.PromoCode{
			ID:                 *promoID,
			Code:               *promoCode,
			Description:        *promoDesc,
			DiscountPercentage: *promoPct,
			IsValid:            *promoValid,
			MaxUses:            promoMax,
			TimesRedeemed:      *promoUses,
			ExpiresAt:          promoExpiry,
		}
	}

	return &order, nil
}
