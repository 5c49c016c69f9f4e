package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/homebox/store"
)

func (d *DB) CreateItem(ctx context.Context, create *store.Item) (*store.Item, error) {
	item := *create
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedTs == 0 {
		item.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO item (id, name, category, quantity, description, location_id, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := d.db.ExecContext(ctx, stmt,
		item.ID,
		item.Name,
		item.Category,
		item.Quantity,
		item.Description,
		item.LocationID,
		item.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create item")
	}
	return &item, nil
}

func (d *DB) ListItems(ctx context.Context, find *store.FindItem) ([]*store.Item, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "name = ?"), append(args, *v)
	}
	if v := find.LocationID; v != nil {
		where, args = append(where, "location_id = ?"), append(args, *v)
	}

	query := `
		SELECT id, name, category, quantity, description, location_id, created_ts
		FROM item
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY seq ASC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list items")
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
			return nil, errors.Wrap(err, "failed to scan item")
		}
		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) DeleteItem(ctx context.Context, delete *store.DeleteItem) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM item WHERE id = ?", delete.ID)
	if err != nil {
		return errors.Wrap(err, "failed to delete item")
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
