package postgresql

import (
	"context"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/database"
)

type dispatchRepositoryImpl struct {
	db *database.DB
}

func NewDispatchRepository(db *database.DB) notification.DispatchRepository {
	return &dispatchRepositoryImpl{db: db}
}

// Claim implements notification.DispatchRepository.
func (r *dispatchRepositoryImpl) Claim(ctx context.Context, kind notification.Kind, key string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_dispatches (kind, dispatch_key)
		VALUES ($1, $2)
		ON CONFLICT (kind, dispatch_key) DO NOTHING
	`
	commandTag, err := q.Exec(ctx, query, kind, key)
	if err != nil {
		return false, err
	}
	return commandTag.RowsAffected() == 1, nil
}

func (r *dispatchRepositoryImpl) Release(ctx context.Context, kind notification.Kind, key string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `DELETE FROM notification_dispatches WHERE kind = $1 AND dispatch_key = $2`, kind, key)
	return err
}
