package service

import "errors"

// Ошибки бизнес-логики для обработки в handlers.
// Ошибки БД оборачиваются как fmt.Errorf("%w: %w", ErrXxx, err).
var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrNoProducts       = errors.New("no products found")
	ErrQueryFailed      = errors.New("query failed")
	ErrCreateFailed     = errors.New("create failed")
	ErrUpdateFailed     = errors.New("update failed")
	ErrDeleteFailed     = errors.New("delete failed")
	ErrBulkInsertFailed = errors.New("bulk insert failed")
)
