package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrVersionConflict возвращается, когда бронирование изменено параллельно (версия не совпала)
	ErrVersionConflict = errors.New("booking.repository: version conflict")

	// ErrNotReviewable возвращается, когда бронирование нельзя отметить как отзыв
	ErrNotReviewable = errors.New("booking.repository: booking is not reviewable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
