package menu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/greyden/greyden/internal/interfaces"
)

func floatPtr(f float64) *float64 { return &f }

func TestPickPrice(t *testing.T) {
	tests := []struct {
		name   string
		drink  menuFileDrink
		want   int64
		wantOK bool
	}{
		{
			name:   "flat price wins",
			drink:  menuFileDrink{Price: floatPtr(45), Sizes: []menuFileSize{{Name: "L", Price: floatPtr(60)}}},
			want:   45,
			wantOK: true,
		},
		{
			name: "cheapest size",
			drink: menuFileDrink{Sizes: []menuFileSize{
				{Name: "L", Price: floatPtr(60)},
				{Name: "S", Price: floatPtr(40)},
				{Name: "M", Price: floatPtr(50)},
			}},
			want:   40,
			wantOK: true,
		},
		{
			name:   "sizes without prices",
			drink:  menuFileDrink{Sizes: []menuFileSize{{Name: "S"}, {Name: "L"}}},
			wantOK: false,
		},
		{
			name:   "nothing to resolve",
			drink:  menuFileDrink{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickPrice(tt.drink)
			if ok != tt.wantOK {
				t.Fatalf("pickPrice() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("pickPrice() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildImportPlanSoftSkips(t *testing.T) {
	doc := menuFile{
		Categories: []menuFileCategory{
			{Name: "Hot Drinks"},
			{Name: "Cold Drinks"},
			{Name: "  "}, // blank category is dropped entirely
		},
		Drinks: []menuFileDrink{
			{Name: "Latte", Category: "Hot Drinks", Price: floatPtr(45)},
			{Name: "Espresso", Category: "Hot Drinks", Sizes: []menuFileSize{{Name: "S", Price: floatPtr(30)}, {Name: "D", Price: floatPtr(38)}}},
			{Name: "Iced Tea", Category: "Cold Drinks", Price: floatPtr(35)},
			{Name: "", Category: "Hot Drinks", Price: floatPtr(10)},        // blank name
			{Name: "Mystery", Category: "Soups", Price: floatPtr(20)},     // unknown category
			{Name: "Free Water", Category: "Cold Drinks"},                 // no resolvable price
		},
	}

	plan, skipped := buildImportPlan(doc)

	if skipped != 3 {
		t.Errorf("skipped = %d, want 3", skipped)
	}
	if len(plan) != 2 {
		t.Fatalf("categories = %d, want 2", len(plan))
	}

	hot := plan[0]
	if hot.Name != "Hot Drinks" || hot.SortOrder != 1 {
		t.Errorf("first category = %+v", hot)
	}
	if len(hot.Items) != 2 {
		t.Fatalf("hot drinks items = %d, want 2", len(hot.Items))
	}
	if hot.Items[0].Name != "Latte" || hot.Items[0].PriceEGP != 45 || hot.Items[0].SortOrder != 1 {
		t.Errorf("latte = %+v", hot.Items[0])
	}
	if hot.Items[1].Name != "Espresso" || hot.Items[1].PriceEGP != 30 || hot.Items[1].SortOrder != 2 {
		t.Errorf("espresso = %+v", hot.Items[1])
	}
	if len(hot.Items[1].Sizes) != 2 {
		t.Errorf("espresso sizes = %d, want 2", len(hot.Items[1].Sizes))
	}

	cold := plan[1]
	if len(cold.Items) != 1 || cold.Items[0].Name != "Iced Tea" {
		t.Errorf("cold drinks = %+v", cold.Items)
	}
}

func writeMenuFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write menu file: %v", err)
	}
	return path
}

func TestImport(t *testing.T) {
	repo := newFakeMenuRepo()
	repo.applyResult = interfaces.MenuImportResult{CategoriesCreated: 1, ItemsCreated: 1}
	svc := NewService(repo, nopLogger{})

	path := writeMenuFile(t, `{
		"categories": [{"name": "Hot Drinks"}],
		"drinks": [
			{"name": "Latte", "category": "Hot Drinks", "price": 45},
			{"name": "Ghost", "category": "Nowhere", "price": 10}
		]
	}`)

	result, err := svc.Import(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.CategoriesCreated != 1 || result.ItemsCreated != 1 {
		t.Errorf("result = %+v", result)
	}
	if result.ItemsSkipped != 1 {
		t.Errorf("skipped = %d, want 1", result.ItemsSkipped)
	}
	if !repo.lastWipe {
		t.Error("wipe flag not forwarded")
	}
	if len(repo.lastPlan) != 1 || len(repo.lastPlan[0].Items) != 1 {
		t.Errorf("plan = %+v", repo.lastPlan)
	}
}

func TestImportHardFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"categories": [`},
		{"no categories", `{"categories": [], "drinks": [{"name": "Latte", "category": "Hot", "price": 45}]}`},
		{"no drinks", `{"categories": [{"name": "Hot"}], "drinks": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newFakeMenuRepo(), nopLogger{})
			path := writeMenuFile(t, tt.content)
			if _, err := svc.Import(context.Background(), path, false); err == nil {
				t.Fatal("Import() error = nil, want error")
			}
		})
	}
}

func TestImportMissingFile(t *testing.T) {
	svc := NewService(newFakeMenuRepo(), nopLogger{})
	if _, err := svc.Import(context.Background(), filepath.Join(t.TempDir(), "absent.json"), false); err == nil {
		t.Fatal("Import() error = nil, want error")
	}
}
