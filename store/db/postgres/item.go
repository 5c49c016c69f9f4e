package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hrygo/homebox/store"
)

func (db *DB) CreateItem(ctx context.Context, create *store.Item) (*store.Item, error) {
	item := *create
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedTs == 0 {
		item.CreatedTs = time.Now().Unix()
	}

	query := `
		INSERT INTO item (id, name, category, quantity, description, location_id, created_ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := db.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Category,
		item.Quantity,
		item.Description,
		item.LocationID,
		item.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &item, nil
}

func (db *DB) ListItems(ctx context.Context, find *store.FindItem) ([]*store.Item, error) {
	query := `
		SELECT id, name, category, quantity, description, location_id, created_ts
		FROM item
		WHERE 1=1
	`
	var args []interface{}
	argIndex := 1

	if find.ID != nil {
		query += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, *find.ID)
		argIndex++
	}
	if find.Name != nil {
		query += fmt.Sprintf(" AND name = $%d", argIndex)
		args = append(args, *find.Name)
		argIndex++
	}
	if find.LocationID != nil {
		query += fmt.Sprintf(" AND location_id = $%d", argIndex)
		args = append(args, *find.LocationID)
		argIndex++
	}
	query += " ORDER BY seq ASC"
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *find.Limit)
	}

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	list := []*store.Item{}
	for rows.Next() {
		var item store.Item
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.Quantity,
			&item.Description,
			&item.LocationID,
			&item.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

func (db *DB) DeleteItem(ctx context.Context, delete *store.DeleteItem) error {
	result, err := db.db.ExecContext(ctx, "DELETE FROM item WHERE id = $1", delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
