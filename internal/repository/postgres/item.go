package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"menu-booking-backend/internal/domain"
	"menu-booking-backend/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id int32) (*domain.Item, error) {
	it := &domain.Item{}
	query := `SELECT id, name, is_bookable, deleted_on FROM items WHERE id = $1 AND deleted_on IS NULL`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.IsBookable, &it.DeletedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}
