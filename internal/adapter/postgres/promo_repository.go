package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type promoRepository struct {
	db DB
}

func NewPromoRepository(db DB) interfaces.PromoRepository {
	return &promoRepository{db: db}
}

const promoColumns = `id, code, description, discount_percentage, is_valid, max_uses, times_redeemed, expires_at`

func (r *promoRepository) List(ctx context.Context) ([]*domain.PromoCode, error) {
	rows, err := r.db.Query(ctx, `SELECT `+promoColumns+` FROM promo_codes ORDER BY code ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query promo codes: %w", err)
	}
	defer rows.Close()

	promos := []*domain.PromoCode{}
	for rows.Next() {
		promo, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan promo code: %w", err)
		}
		promos = append(promos, promo)
	}

	return promos, rows.Err()
}

func (r *promoRepository) FindByID(ctx context.Context, id int64) (*domain.PromoCode, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promoColumns+` FROM promo_codes WHERE id = $1`, id)
	promo, err := scanPromo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoCodeNotFound
		}
		return nil, fmt.Errorf("failed to load promo code: %w", err)
	}
	return promo, nil
}

func (r *promoRepository) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	row := r.db.QueryRow(ctx, `SELECT `+promoColumns+` FROM promo_codes WHERE LOWER(code) = LOWER($1)`, code)
	promo, err := scanPromo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromoCodeNotFound
		}
		return nil, fmt.Errorf("failed to load promo code: %w", err)
	}
	return promo, nil
}

func (r *promoRepository) Create(ctx context.Context, promo *domain.PromoCode) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO promo_codes (code, description, discount_percentage, is_valid, max_uses, times_redeemed, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, promo.Code, promo.Description, promo.DiscountPercentage, promo.IsValid,
		promo.MaxUses, promo.TimesRedeemed, promo.ExpiresAt,
	).Scan(&promo.ID)
	if err != nil {
		return fmt.Errorf("failed to insert promo code: %w", err)
	}
	return nil
}

func (r *promoRepository) Update(ctx context.Context, promo *domain.PromoCode) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE promo_codes
		SET code = $1, description = $2, discount_percentage = $3, is_valid = $4,
		    max_uses = $5, times_redeemed = $6, expires_at = $7
		WHERE id = $8
	`, promo.Code, promo.Description, promo.DiscountPercentage, promo.IsValid,
		promo.MaxUses, promo.TimesRedeemed, promo.ExpiresAt, promo.ID)
	if err != nil {
		return fmt.Errorf("failed to update promo code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromoCodeNotFound
	}
	return nil
}

func scanPromo(row Row) (*domain.PromoCode, error) {
	var promo domain.PromoCode
	err := row.Scan(&promo.ID, &promo.Code, &promo.Description, &promo.DiscountPercentage,
		&promo.IsValid, &promo.MaxUses, &promo.TimesRedeemed, &promo.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &promo, nil
}
