package menu

import (
	"context"
	"fmt"

	"github.com/greyden/greyden/internal/adapter/logger"
	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type Service struct {
	repo   interfaces.MenuRepository
	logger logger.Logger
}

func NewService(repo interfaces.MenuRepository, lgr logger.Logger) *Service {
	return &Service{repo: repo, logger: lgr}
}

func (s *Service) GetMenu(ctx context.Context) ([]*domain.MenuCategory, error) {
	return s.repo.ListCategories(ctx)
}

// UpdateItem applies a partial update to a menu item. Changing a price here
// never touches existing orders; they keep their snapshots.
func (s *Service) UpdateItem(ctx context.Context, cmd interfaces.UpdateMenuItemCommand) (*domain.MenuItem, error) {
	item, err := s.repo.FindItem(ctx, cmd.ItemID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		item.Name = *cmd.Name
	}
	if cmd.Description != nil {
		item.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if cmd.Price.IsNegative() {
			return nil, domain.ErrNegativePrice
		}
		item.PriceEGP = domain.ToWholeUnits(*cmd.Price)
	}
	if cmd.IsAvailable != nil {
		item.IsAvailable = *cmd.IsAvailable
	}
	if cmd.SortOrder != nil {
		item.SortOrder = *cmd.SortOrder
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_updated", fmt.Sprintf("Menu item %d updated", item.ID), "", map[string]interface{}{
		"item_id": item.ID,
	})

	return item, nil
}
