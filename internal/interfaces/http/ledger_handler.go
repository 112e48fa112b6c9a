package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/copypoint/copypoint-api/internal/application/dto"
	"github.com/copypoint/copypoint-api/internal/application/ledger"
	"github.com/copypoint/copypoint-api/internal/domain"
	"github.com/copypoint/copypoint-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro de movimientos:
// registro, consulta de historial, stock derivado, resumen y stock bajo.
type LedgerHandler struct {
	register *ledger.RegisterMovementUseCase
	stock    *ledger.StockUseCase
	query    *ledger.MovementQueryUseCase
	lowStock *ledger.LowStockUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	register *ledger.RegisterMovementUseCase,
	stock *ledger.StockUseCase,
	query *ledger.MovementQueryUseCase,
	lowStock *ledger.LowStockUseCase,
) *LedgerHandler {
	return &LedgerHandler{register: register, stock: stock, query: query, lowStock: lowStock}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Agrega una entrada, descuento por venta o ajuste al libro. La cantidad
//
//	siempre es positiva; en los ajustes la dirección indica el signo.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, kind, quantity, direction (ajustes), doc_ref, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.register.RegisterMovement(c.Context(), actorFromCtx(c), toMovementInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// RegisterMovementBatch godoc
// @Summary      Registrar lote de movimientos (todo o nada)
// @Description  Aplica varias líneas como una sola operación atómica: si alguna
//
//	falla la validación o deja stock negativo, ninguna se persiste.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementBatchRequest  true  "entries"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallResponse
// @Router       /api/ledger/movements/batch [post]
func (h *LedgerHandler) RegisterMovementBatch(c *fiber.Ctx) error {
	var in dto.RegisterMovementBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entries := make([]ledger.MovementInput, 0, len(in.Entries))
	for _, e := range in.Entries {
		entries = append(entries, toMovementInput(e))
	}
	movs, err := h.register.RegisterMovementBatch(c.Context(), actorFromCtx(c), entries)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual de inventario
// @Description  Corrige el stock tras un conteo físico, merma o rotura. La ruta
//
//	exige rol admin y el servicio vuelve a verificar el privilegio.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, quantity, direction, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ShortfallResponse
// @Router       /api/ledger/adjustments [post]
func (h *LedgerHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in.Kind = entity.MovementKindAdjustment
	mov, err := h.register.RegisterMovement(c.Context(), actorFromCtx(c), toMovementInput(in))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// QueryMovements godoc
// @Summary      Consultar historial de movimientos
// @Description  Filtros combinables por artículo, rango de fechas (máx. un año),
//
//	tipo y referencia de documento. Orden (timestamp, id) ascendente.
//
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id        query  string  false  "UUID del artículo"
// @Param        from           query  string  false  "Inicio del rango (RFC3339)"
// @Param        to             query  string  false  "Fin del rango (RFC3339)"
// @Param        kind           query  string  false  "RECEIPT | SALE_DEDUCTION | ADJUSTMENT"
// @Param        doc_ref        query  string  false  "Referencia (prefijo, insensible a separadores)"
// @Param        doc_ref_exact  query  bool    false  "Coincidencia exacta de referencia"
// @Param        limit          query  int     false  "Tamaño de página"
// @Param        offset         query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [get]
func (h *LedgerHandler) QueryMovements(c *fiber.Ctx) error {
	f, err := parseQueryFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movs, err := h.query.QueryMovements(c.Context(), f)
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, dto.ToMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	})
}

// GetStock godoc
// @Summary      Stock derivado de un artículo
// @Description  Pliega el libro de movimientos del artículo hasta as_of (por
//
//	defecto ahora). Operación de solo lectura.
//
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "UUID del artículo"
// @Param        as_of  query  string  false  "Corte histórico (RFC3339)"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock [get]
func (h *LedgerHandler) GetStock(c *fiber.Ctx) error {
	itemID := c.Params("id")
	var asOf *time.Time
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of debe ser RFC3339"})
		}
		asOf = &t
	}
	snap, err := h.stock.ComputeStock(c.Context(), itemID, asOf)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.StockResponse{ItemID: snap.ItemID, Quantity: snap.Quantity, AsOf: snap.AsOf})
}

// MovementSummary godoc
// @Summary      Resumen de movimientos por tipo
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Inicio del rango (RFC3339)"
// @Param        to    query  string  false  "Fin del rango (RFC3339)"
// @Success      200  {array}   dto.KindSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/summary [get]
func (h *LedgerHandler) MovementSummary(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rows, err := h.query.MovementSummary(c.Context(), from, to)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.KindSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.KindSummaryResponse{Kind: r.Kind, Count: r.Count, TotalItems: r.TotalItems})
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Evaluación de stock bajo
// @Description  Clasifica los artículos inventariables contra su punto de
//
//	reorden y sugiere cantidades de pedido (más severos primero).
//
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "Filtrar por categoría"
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/ledger/low-stock [get]
func (h *LedgerHandler) LowStock(c *fiber.Ctx) error {
	entries, err := h.lowStock.EvaluateLowStock(c.Context(), c.Query("category"))
	if err != nil {
		return respondDomainError(c, err)
	}
	items := make([]dto.LowStockEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.ToLowStockEntryResponse(e))
	}
	return c.JSON(dto.LowStockResponse{Items: items})
}

// toMovementInput mapea el DTO de entrada al input del caso de uso.
func toMovementInput(in dto.RegisterMovementRequest) ledger.MovementInput {
	return ledger.MovementInput{
		ItemID:    in.ItemID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Direction: in.Direction,
		UnitCost:  in.UnitCost,
		DocRef:    in.DocRef,
		Reason:    in.Reason,
	}
}

// parseQueryFilter arma el filtro de consulta desde los query params.
func parseQueryFilter(c *fiber.Ctx) (ledger.QueryFilter, error) {
	from, to, err := parseDateRange(c)
	if err != nil {
		return ledger.QueryFilter{}, err
	}
	return ledger.QueryFilter{
		ItemID:      c.Query("item_id"),
		From:        from,
		To:          to,
		Kind:        c.Query("kind"),
		DocRef:      c.Query("doc_ref"),
		DocRefExact: c.QueryBool("doc_ref_exact"),
		Limit:       c.QueryInt("limit"),
		Offset:      c.QueryInt("offset"),
	}, nil
}

// parseDateRange lee from/to en RFC3339 (ambos opcionales).
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, errors.New("from debe ser RFC3339")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, nil, errors.New("to debe ser RFC3339")
		}
		to = &t
	}
	return from, to, nil
}

// respondDomainError mapea los errores de dominio a códigos HTTP. El faltante
// de stock lleva su detalle (solicitado vs disponible) en el cuerpo.
func respondDomainError(c *fiber.Ctx, err error) error {
	var shortfall *domain.InsufficientStockError
	if errors.As(err, &shortfall) {
		return c.Status(fiber.StatusConflict).JSON(dto.ShortfallResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   shortfall.Error(),
			ItemID:    shortfall.ItemID,
			Requested: shortfall.Requested,
			Available: shortfall.Available,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrFilterRangeExceeded):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "RANGE_EXCEEDED", Message: "el rango de fechas excede el máximo de un año"})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: "artículo no encontrado"})
	case errors.Is(err, domain.ErrUntrackedItem):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNTRACKED_ITEM", Message: "el artículo no maneja stock"})
	case errors.Is(err, domain.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PERMISSION_DENIED", Message: "operación reservada a administradores"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrOperationTimeout):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "la operación expiró, reintente"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
