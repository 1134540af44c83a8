package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) RecordOrder(ctx context.Context, user string, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var profileID int64
	err = tx.QueryRow(ctx, `SELECT id FROM customer_profiles WHERE user_name = $1`, user).Scan(&profileID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			`INSERT INTO customer_profiles (user_name) VALUES ($1) RETURNING id`, user,
		).Scan(&profileID)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert customer profile: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE customer_profiles
		SET current_order_id = $1, current_order_status = $2
		WHERE id = $3
	`, order.ID, order.Status, profileID)
	if err != nil {
		return fmt.Errorf("failed to update current order: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO customer_order_history (profile_id, order_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, profileID, order.ID)
	if err != nil {
		return fmt.Errorf("failed to append order history: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *customerRepository) FindProfile(ctx context.Context, user string) (*domain.CustomerProfile, error) {
	var (
		profile        domain.CustomerProfile
		currentOrderID *int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_name, current_order_id, current_order_status
		FROM customer_profiles
		WHERE user_name = $1
	`, user).Scan(&profile.ID, &profile.User, &currentOrderID, &profile.CurrentOrderStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load customer profile: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM customer_order_history h
		JOIN orders o ON o.id = h.order_id
		LEFT JOIN promo_codes p ON p.id = o.promo_code_id
		WHERE h.profile_id = $1
		ORDER BY o.created_at DESC
	`, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order history: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history order: %w", err)
		}
		profile.OrderHistory = append(profile.OrderHistory, order)
		ids = append(ids, order.ID)
		if currentOrderID != nil && order.ID == *currentOrderID {
			profile.CurrentOrder = order
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order history: %w", err)
	}

	if len(ids) > 0 {
		items, err := loadOrderItems(ctx, r.db, ids)
		if err != nil {
			return nil, err
		}
		for _, order := range profile.OrderHistory {
			order.Items = items[order.ID]
		}
	}

	return &profile, nil
}
