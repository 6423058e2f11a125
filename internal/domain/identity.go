package domain

import "time"

// Customer — запись пула покупателей из общего хранилища (только чтение,
// служит пулом для сэмплирования).
type Customer struct {
	ID        int64
	CreatedAt time.Time
	Address   string
}

// Manager — запись пула менеджеров, отфильтрованного по роли.
type Manager struct {
	ID int64
}
