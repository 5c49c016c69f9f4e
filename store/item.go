package store

import "context"

// Category is an item category.
type Category string

const (
	CategoryElectronics Category = "电子产品"
	CategoryTools       Category = "工具"
	CategoryClothing    Category = "衣物"
	CategoryBooks       Category = "书籍"
	CategoryKitchen     Category = "厨房用品"
	CategoryMedicine    Category = "药品"
	CategorySouvenir    Category = "纪念品"
	CategoryOther       Category = "其他"
)

// DefaultCategories lists the categories in display order.
var DefaultCategories = []Category{
	CategoryElectronics,
	CategoryTools,
	CategoryClothing,
	CategoryBooks,
	CategoryKitchen,
	CategoryMedicine,
	CategorySouvenir,
	CategoryOther,
}

// NormalizeCategory returns c if it is a known category, CategoryOther otherwise.
func NormalizeCategory(c string) Category {
	for _, known := range DefaultCategories {
		if string(known) == c {
			return known
		}
	}
	return CategoryOther
}

// Item is a physical object stored somewhere in the home.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Quantity    int      `json:"quantity"`
	Description string   `json:"description,omitempty"`
	LocationID  string   `json:"locationId,omitempty"`

	CreatedTs int64 `json:"createdTs"`
}

// FindItem is the find condition for items.
type FindItem struct {
	ID         *string
	Name       *string
	LocationID *string
	Limit      *int
}

// DeleteItem is the delete condition for an item.
type DeleteItem struct {
	ID string
}

// CreateItem creates an item. Quantity defaults to 1 and unknown categories become CategoryOther.
func (s *Store) CreateItem(ctx context.Context, create *Item) (*Item, error) {
	if create.Quantity <= 0 {
		create.Quantity = 1
	}
	create.Category = NormalizeCategory(string(create.Category))
	return s.driver.CreateItem(ctx, create)
}

// ListItems lists items in creation order.
func (s *Store) ListItems(ctx context.Context, find *FindItem) ([]*Item, error) {
	return s.driver.ListItems(ctx, find)
}

// DeleteItem deletes an item.
func (s *Store) DeleteItem(ctx context.Context, delete *DeleteItem) error {
	return s.driver.DeleteItem(ctx, delete)
}
