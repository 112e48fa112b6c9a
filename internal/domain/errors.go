package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrItemNotFound        = errors.New("artículo no encontrado")
	ErrUntrackedItem       = errors.New("el artículo no maneja stock")
	ErrPermissionDenied    = errors.New("permiso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrFilterRangeExceeded = errors.New("rango de fechas excede el máximo permitido")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrOperationTimeout    = errors.New("operación expirada por timeout")
	ErrStorageUnavailable  = errors.New("almacenamiento no disponible")

	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrDuplicate    = errors.New("recurso duplicado")
)

// InsufficientStockError lleva el detalle del faltante (solicitado vs disponible)
// para que el caller pueda construir el mensaje al usuario antes de abortar la venta.
// errors.Is(err, ErrInsufficientStock) sigue funcionando vía Is.
type InsufficientStockError struct {
	ItemID    string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el artículo %s: solicitado %d, disponible %d",
		e.ItemID, e.Requested, e.Available)
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
