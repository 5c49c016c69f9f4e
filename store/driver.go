package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	Migrate(ctx context.Context) error

	// Location model related methods.
	CreateLocation(ctx context.Context, create *Location) (*Location, error)
	ListLocations(ctx context.Context, find *FindLocation) ([]*Location, error)

	// Item model related methods.
	CreateItem(ctx context.Context, create *Item) (*Item, error)
	ListItems(ctx context.Context, find *FindItem) ([]*Item, error)
	DeleteItem(ctx context.Context, delete *DeleteItem) error
}
