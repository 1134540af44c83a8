package promo

import (
	"context"
	"errors"
	"fmt"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type Service struct {
	repo   interfaces.PromoRepository
	logger logger.Logger
}

func NewService(repo interfaces.PromoRepository, lgr logger.Logger) *Service {
	return &Service{repo: repo, logger: lgr}
}

func (s *Service) ListCodes(ctx context.Context) ([]*domain.PromoCode, error) {
	return s.repo.List(ctx)
}

func (s *Service) CreateCode(ctx context.Context, cmd interfaces.CreatePromoCodeCommand) (*domain.PromoCode, error) {
	if cmd.Code == "" {
		return nil, errors.New("promo code is required")
	}
	if cmd.DiscountPercentage < 0 {
		return nil, errors.New("discount percentage must be zero or positive")
	}

	promo := &domain.PromoCode{
		Code:               cmd.Code,
		Description:        cmd.Description,
		DiscountPercentage: cmd.DiscountPercentage,
		IsValid:            cmd.IsValid,
		MaxUses:            cmd.MaxUses,
		ExpiresAt:          cmd.ExpiresAt,
	}

	if err := s.repo.Create(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info("promo_code_created", fmt.Sprintf("Promo code %s created", promo.Code), "", map[string]interface{}{
		"promo_id": promo.ID,
	})

	return promo, nil
}

func (s *Service) GetCode(ctx context.Context, id int64) (*domain.PromoCode, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateCode applies a partial update; nil fields are left untouched.
func (s *Service) UpdateCode(ctx context.Context, id int64, cmd interfaces.UpdatePromoCodeCommand) (*domain.PromoCode, error) {
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Code != nil {
		if *cmd.Code == "" {
			return nil, errors.New("promo code is required")
		}
		promo.Code = *cmd.Code
	}
	if cmd.Description != nil {
		promo.Description = *cmd.Description
	}
	if cmd.DiscountPercentage != nil {
		if *cmd.DiscountPercentage < 0 {
			return nil, errors.New("discount percentage must be zero or positive")
		}
		promo.DiscountPercentage = *cmd.DiscountPercentage
	}
	if cmd.IsValid != nil {
		promo.IsValid = *cmd.IsValid
	}
	if cmd.MaxUses != nil {
		promo.MaxUses = cmd.MaxUses
	}
	if cmd.TimesRedeemed != nil {
		promo.TimesRedeemed = *cmd.TimesRedeemed
	}
	if cmd.ExpiresAt != nil {
		promo.ExpiresAt = cmd.ExpiresAt
	}

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}

	return promo, nil
}
