package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usdt-market/backend/internal/models"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, telegram_id, username, first_name, language, balance, sales_count, purchases_count, created_at, last_active_at`

// UpsertByTelegramID registers the user on first contact. An empty language
// keeps the stored one.
func (r *UserRepo) UpsertByTelegramID(ctx context.Context, telegramID int64, username, firstName *string, language string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (telegram_id, username, first_name, language)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'ru'))
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = COALESCE(EXCLUDED.username, users.username),
			first_name = COALESCE(EXCLUDED.first_name, users.first_name),
			language = COALESCE(NULLIF($4, ''), users.language),
			last_active_at = now()
		RETURNING `+userColumns,
		telegramID, username, firstName, language,
	).Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.Language, &u.Balance, &u.SalesCount, &u.PurchasesCount,
		&u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.Language, &u.Balance, &u.SalesCount, &u.PurchasesCount,
		&u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram_id = $1`, telegramID).Scan(
		&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.Language, &u.Balance, &u.SalesCount, &u.PurchasesCount,
		&u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}
