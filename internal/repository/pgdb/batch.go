package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// execBatch выполняет батч вставок и возвращает число реально вставленных
// строк: конфликт по контентному хэшу даёт нулевой RowsAffected.
func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (int64, error) {
	res := tx.SendBatch(ctx, batch)
	defer res.Close()

	var inserted int64
	for i := 0; i < batch.Len(); i++ {
		tag, err := res.Exec()
		if err != nil {
			return 0, err
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}
