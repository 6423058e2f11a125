package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// Ошибки мини-языка вариантов: опция/строка отбрасывается, батч продолжается
	ErrMalformedPrice  = fmt.Errorf("malformed price token")
	ErrMalformedOption = fmt.Errorf("malformed option pair")

	// Ошибки сырых строк
	ErrMissingRequiredField = fmt.Errorf("missing required field")
	ErrUnresolvedReference  = fmt.Errorf("unresolved reference")

	// Ошибки конвейера
	ErrEmptyCatalog      = fmt.Errorf("catalog is empty after cleaning")
	ErrEmptyIdentityPool = fmt.Errorf("identity pool is empty")
	ErrRunNotFound       = fmt.Errorf("pipeline run not found")

	// HTTP-ошибки
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
