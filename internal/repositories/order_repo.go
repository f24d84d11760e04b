package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/usdt-market/backend/internal/models"
)

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, order_id, buyer_id, seller_id, product_id, price, commission,
	payment_address, payment_network, tx_hash, status, escrow_until, dispute_reason,
	created_at, paid_at, delivered_at, completed_at`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.OrderID, &o.BuyerID, &o.SellerID, &o.ProductID, &o.Price, &o.Commission,
		&o.PaymentAddress, &o.PaymentNetwork, &o.TxHash, &o.Status, &o.EscrowUntil, &o.DisputeReason,
		&o.CreatedAt, &o.PaidAt, &o.DeliveredAt, &o.CompletedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO orders (order_id, buyer_id, seller_id, product_id, price, commission,
		                    payment_address, payment_network, status, escrow_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, o.OrderID, o.BuyerID, o.SellerID, o.ProductID, o.Price, o.Commission,
		o.PaymentAddress, o.PaymentNetwork, o.Status, o.EscrowUntil, o.CreatedAt,
	).Scan(&o.ID)
}

func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r *OrderRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID))
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, buyerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// ListStuckPaid returns orders that reached paid before olderThan and were never delivered.
func (r *OrderRepo) ListStuckPaid(ctx context.Context, olderThan time.Time, limit int) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = 'paid' AND paid_at < $1
		ORDER BY paid_at LIMIT $2
	`, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// MarkPaid moves a pending order to paid. It reports false when the order was
// no longer pending; ErrTxHashUsed when the hash already pays another order.
func (r *OrderRepo) MarkPaid(ctx context.Context, id uuid.UUID, txHash string, paidAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = 'paid', tx_hash = $1, paid_at = $2
		WHERE id = $3 AND status = 'pending' AND tx_hash IS NULL
	`, txHash, paidAt, id)
	if err != nil {
		if isUniqueViolation(err, "orders_tx_hash_uniq") {
			return false, ErrTxHashUsed
		}
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = 'cancelled'
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status = 'completed', completed_at = $1
		WHERE id = $2 AND status IN ('delivered', 'disputed')
	`, at, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkDelivered moves a paid order to delivered and bumps the product, seller
// and buyer counters in one transaction. Nothing changes unless the order was paid.
func (r *OrderRepo) MarkDelivered(ctx context.Context, o *models.Order, at time.Time) (bool, error) {
	delivered := false
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE orders SET status = 'delivered', delivered_at = $1
			WHERE id = $2 AND status = 'paid'
		`, at, o.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		if _, err := tx.Exec(ctx, `UPDATE products SET sales_count = sales_count + 1, updated_at = now() WHERE id = $1`, o.ProductID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET sales_count = sales_count + 1 WHERE id = $1`, o.SellerID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET purchases_count = purchases_count + 1 WHERE id = $1`, o.BuyerID); err != nil {
			return err
		}
		delivered = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return delivered, nil
}

// TxHashOwner returns the order already paid by txHash on network.
func (r *OrderRepo) TxHashOwner(ctx context.Context, network models.Network, txHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM orders WHERE payment_network = $1 AND tx_hash = $2
	`, network, txHash).Scan(&id)
	if err != nil {
		return uuid.Nil, notFound(err)
	}
	return id, nil
}
