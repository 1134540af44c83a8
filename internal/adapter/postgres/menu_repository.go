package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

type menuRepository struct {
	db DB
}

func NewMenuRepository(db DB) interfaces.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) ListCategories(ctx context.Context) ([]*domain.MenuCategory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, sort_order
		FROM menu_categories
		ORDER BY sort_order ASC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.MenuCategory
	byID := make(map[int64]*domain.MenuCategory)
	var ids []int64
	for rows.Next() {
		var cat domain.MenuCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan menu category: %w", err)
		}
		categories = append(categories, &cat)
		byID[cat.ID] = &cat
		ids = append(ids, cat.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate menu categories: %w", err)
	}

	if len(ids) == 0 {
		return categories, nil
	}

	itemRows, err := r.db.Query(ctx, `
		SELECT id, category_id, name, description, price_egp, sizes, is_available, sort_order
		FROM menu_items
		WHERE category_id = ANY($1)
		ORDER BY sort_order ASC, name ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item, err := scanMenuItem(itemRows)
		if err != nil {
			return nil, err
		}
		if cat, ok := byID[item.CategoryID]; ok {
			cat.Items = append(cat.Items, *item)
		}
	}

	return categories, itemRows.Err()
}

func (r *menuRepository) FindItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, category_id, name, description, price_egp, sizes, is_available, sort_order
		FROM menu_items
		WHERE id = $1
	`, id)

	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	return item, nil
}

func (r *menuRepository) UpdateItem(ctx context.Context, item *domain.MenuItem) error {
	sizes, err := json.Marshal(item.Sizes)
	if err != nil {
		return fmt.Errorf("failed to marshal sizes: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price_egp = $3, sizes = $4, is_available = $5, sort_order = $6
		WHERE id = $7
	`, item.Name, item.Description, item.PriceEGP, sizes, item.IsAvailable, item.SortOrder, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *menuRepository) ApplyImport(ctx context.Context, plan []interfaces.MenuImportCategory, wipe bool) (interfaces.MenuImportResult, error) {
	var result interfaces.MenuImportResult

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if wipe {
		if _, err := tx.Exec(ctx, `DELETE FROM menu_items`); err != nil {
			return result, fmt.Errorf("failed to wipe menu items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM menu_categories`); err != nil {
			return result, fmt.Errorf("failed to wipe menu categories: %w", err)
		}
	}

	for _, cat := range plan {
		catID, created, err := upsertCategory(ctx, tx, cat)
		if err != nil {
			return result, err
		}
		if created {
			result.CategoriesCreated++
		} else {
			result.CategoriesUpdated++
		}

		for _, item := range cat.Items {
			created, err := upsertItem(ctx, tx, catID, item)
			if err != nil {
				return result, err
			}
			if created {
				result.ItemsCreated++
			} else {
				result.ItemsUpdated++
			}
		}
	}

	return result, tx.Commit(ctx)
}

func upsertCategory(ctx context.Context, tx Tx, cat interfaces.MenuImportCategory) (int64, bool, error) {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM menu_categories WHERE name = $1`, cat.Name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx,
			`INSERT INTO menu_categories (name, sort_order) VALUES ($1, $2) RETURNING id`,
			cat.Name, cat.SortOrder,
		).Scan(&id)
		if err != nil {
			return 0, false, fmt.Errorf("failed to insert category %q: %w", cat.Name, err)
		}
		return id, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up category %q: %w", cat.Name, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE menu_categories SET sort_order = $1 WHERE id = $2`, cat.SortOrder, id); err != nil {
		return 0, false, fmt.Errorf("failed to update category %q: %w", cat.Name, err)
	}
	return id, false, nil
}

func upsertItem(ctx context.Context, tx Tx, categoryID int64, item interfaces.MenuImportItem) (bool, error) {
	sizes, err := json.Marshal(item.Sizes)
	if err != nil {
		return false, fmt.Errorf("failed to marshal sizes for %q: %w", item.Name, err)
	}

	var id int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM menu_items WHERE category_id = $1 AND name = $2`,
		categoryID, item.Name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		_, err = tx.Exec(ctx, `
			INSERT INTO menu_items (category_id, name, description, price_egp, sizes, is_available, sort_order)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		`, categoryID, item.Name, item.Description, item.PriceEGP, sizes, item.SortOrder)
		if err != nil {
			return false, fmt.Errorf("failed to insert item %q: %w", item.Name, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up item %q: %w", item.Name, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE menu_items
		SET description = $1, price_egp = $2, sizes = $3, is_available = TRUE, sort_order = $4
		WHERE id = $5
	`, item.Description, item.PriceEGP, sizes, item.SortOrder, id)
	if err != nil {
		return false, fmt.Errorf("failed to update item %q: %w", item.Name, err)
	}
	return false, nil
}

func scanMenuItem(row Row) (*domain.MenuItem, error) {
	var (
		item      domain.MenuItem
		sizesJSON []byte
	)
	err := row.Scan(&item.ID, &item.CategoryID, &item.Name, &item.Description,
		&item.PriceEGP, &sizesJSON, &item.IsAvailable, &item.SortOrder)
	if err != nil {
		return nil, err
	}

	if len(sizesJSON) > 0 {
		if err := json.Unmarshal(sizesJSON, &item.Sizes); err != nil {
			return nil, fmt.Errorf("failed to parse stored sizes: %w", err)
		}
	}
	return &item, nil
}
