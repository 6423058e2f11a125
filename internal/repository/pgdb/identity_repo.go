package pgdb

import (
	"context"

	"github.com/DRSN-tech/eshop-etl/internal/domain"
	"github.com/DRSN-tech/eshop-etl/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// IdentityRepo читает пулы покупателей и менеджеров из общих таблиц
// платформы. Только чтение, вне транзакций загрузки.
type IdentityRepo struct {
	pool *pgxpool.Pool
}

func NewIdentityRepo(pool *pgxpool.Pool) *IdentityRepo {
	return &IdentityRepo{pool: pool}
}

// Customers возвращает покупателей с незаблокированными аккаунтами.
// Порядок по id закреплён: пул сэмплируется детерминированным генератором.
func (r *IdentityRepo) Customers(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT c.id, a.created_at, c.address
		FROM customer AS c
		JOIN account AS a ON c.account_id = a.id
		WHERE a.status != 'banned'
		ORDER BY c.id;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.Address); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return customers, nil
}

// ManagersByRole возвращает менеджеров с указанной ролью по возрастанию id.
func (r *IdentityRepo) ManagersByRole(ctx context.Context, role string) ([]domain.Manager, error) {
	query := `
		SELECT m.id
		FROM manager AS m
		JOIN role AS r ON m.role_id = r.id
		WHERE r.name = $1
		ORDER BY m.id;
	`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	managers := make([]domain.Manager, 0)
	for rows.Next() {
		var m domain.Manager
		if err := rows.Scan(&m.ID); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		managers = append(managers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return managers, nil
}
