package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/greyden/greyden/internal/domain"
	"github.com/greyden/greyden/internal/interfaces"
)

// menu.json document shape: a flat list of categories plus a flat list of
// drinks that reference their category by name.
type menuFile struct {
	Categories []menuFileCategory `json:"categories"`
	Drinks     []menuFileDrink    `json:"drinks"`
}

type menuFileCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type menuFileDrink struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Price       *float64       `json:"price"`
	Sizes       []menuFileSize `json:"sizes"`
}

type menuFileSize struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// Import loads a menu.json file and upserts its catalog in one transaction.
// Rows with a missing name, an unknown category or no resolvable price are
// skipped softly and counted; only a malformed file is a hard failure.
func (s *Service) Import(ctx context.Context, path string, wipe bool) (interfaces.MenuImportResult, error) {
	var result interfaces.MenuImportResult

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read menu file: %w", err)
	}

	var doc menuFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return result, fmt.Errorf("invalid menu JSON: %w", err)
	}

	if len(doc.Categories) == 0 {
		return result, fmt.Errorf("menu file: 'categories' is missing or empty")
	}
	if len(doc.Drinks) == 0 {
		return result, fmt.Errorf("menu file: 'drinks' is missing or empty")
	}

	plan, skipped := buildImportPlan(doc)

	result, err = s.repo.ApplyImport(ctx, plan, wipe)
	if err != nil {
		return result, err
	}
	result.ItemsSkipped = skipped

	s.logger.Info("menu_imported", "Menu import complete", "", map[string]interface{}{
		"categories_created": result.CategoriesCreated,
		"categories_updated": result.CategoriesUpdated,
		"items_created":      result.ItemsCreated,
		"items_updated":      result.ItemsUpdated,
		"items_skipped":      result.ItemsSkipped,
	})

	return result, nil
}

// buildImportPlan groups drinks under their categories, assigning sort
// orders by document position. Returns the plan and the soft-skip count.
func buildImportPlan(doc menuFile) ([]interfaces.MenuImportCategory, int) {
	var plan []interfaces.MenuImportCategory
	index := make(map[string]int)

	for idx, cat := range doc.Categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			continue
		}
		plan = append(plan, interfaces.MenuImportCategory{Name: name, SortOrder: idx + 1})
		index[name] = len(plan) - 1
	}

	skipped := 0
	for _, drink := range doc.Drinks {
		name := strings.TrimSpace(drink.Name)
		catName := strings.TrimSpace(drink.Category)
		if name == "" || catName == "" {
			skipped++
			continue
		}

		catIdx, ok := index[catName]
		if !ok {
			// drink references a category absent from the categories array
			skipped++
			continue
		}
		cat := &plan[catIdx]

		price, ok := pickPrice(drink)
		if !ok {
			skipped++
			continue
		}

		var sizes []domain.MenuSize
		for _, size := range drink.Sizes {
			sizePrice := int64(0)
			if size.Price != nil {
				sizePrice = int64(*size.Price)
			}
			sizes = append(sizes, domain.MenuSize{Name: size.Name, Price: sizePrice})
		}

		cat.Items = append(cat.Items, interfaces.MenuImportItem{
			Name:        name,
			Description: strings.TrimSpace(drink.Description),
			PriceEGP:    price,
			Sizes:       sizes,
			SortOrder:   len(cat.Items) + 1,
		})
	}

	return plan, skipped
}

// pickPrice resolves a drink's price: the flat `price` field when present,
// otherwise the cheapest size.
func pickPrice(drink menuFileDrink) (int64, bool) {
	if drink.Price != nil {
		return int64(*drink.Price), true
	}

	found := false
	var min int64
	for _, size := range drink.Sizes {
		if size.Price == nil {
			continue
		}
		p := int64(*size.Price)
		if !found || p < min {
			min = p
			found = true
		}
	}
	return min, found
}
