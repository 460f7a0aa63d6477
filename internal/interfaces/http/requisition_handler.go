package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/almacen-escolar/internal/application/dto"
	"github.com/tu-usuario/almacen-escolar/internal/application/requisition"
)

// VoucherPDFGenerator genera el comprobante imprimible de una requisición.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, data *requisition.VoucherData) ([]byte, error)
}

// RequisitionHandler maneja las peticiones HTTP de requisiciones (protegido).
type RequisitionHandler struct {
	uc  *requisition.Usecase
	pdf VoucherPDFGenerator
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(uc *requisition.Usecase, pdf VoucherPDFGenerator) *RequisitionHandler {
	return &RequisitionHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "Datos de la requisición"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), GetRole(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener requisición por ID
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [get]
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar requisiciones
// @Description  Un profesor solo ve las suyas; aprobadores y administrador ven todas.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending | approved | rejected"
// @Param        priority     query  string  false  "low | medium | high | urgent"
// @Param        material_id  query  string  false  "Material"
// @Param        from         query  string  false  "Desde (RFC 3339)"
// @Param        to           query  string  false  "Hasta (RFC 3339)"
// @Param        page         query  int     false  "Página"          default(1)
// @Param        page_size    query  int     false  "Tamaño de página" default(20)
// @Success      200  {object}  dto.PageResponse
// @Router       /api/requisitions [get]
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	var f dto.RequisitionListFilter
	if err := c.QueryParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	var err error
	if f.From, err = parseTimeQuery(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
	}
	if f.To, err = parseTimeQuery(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
	}
	out, err := h.uc.List(c.UserContext(), GetUserID(c), GetRole(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Pending godoc
// @Summary      Cola de requisiciones pendientes
// @Description  Ordenada por prioridad descendente y, a igual prioridad, la más antigua primero.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Página"          default(1)
// @Param        page_size  query  int  false  "Tamaño de página" default(20)
// @Success      200  {object}  dto.PageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/requisitions/pending [get]
func (h *RequisitionHandler) Pending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	out, err := h.uc.ListPending(c.UserContext(), GetRole(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar requisición pendiente (solo el solicitante)
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.UpdateRequisitionRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id} [put]
func (h *RequisitionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar requisición
// @Description  Descuenta stock, asienta el movimiento OUT y marca la requisición aprobada en una sola transacción.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.RequisitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/approve [post]
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la requisición"
// @Param        body  body  dto.RejectRequisitionRequest  true  "Motivo de rechazo"
// @Success      200   {object}  dto.RequisitionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/reject [post]
func (h *RequisitionHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reject(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de requisiciones
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RequisitionStatsResponse
// @Router       /api/requisitions/stats [get]
func (h *RequisitionHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetUserID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// VoucherPDF godoc
// @Summary      Comprobante PDF de la requisición
// @Tags         requisitions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/pdf [get]
func (h *RequisitionHandler) VoucherPDF(c *fiber.Ctx) error {
	data, err := h.uc.Voucher(c.UserContext(), GetUserID(c), GetRole(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, err := h.pdf.GenerateVoucherPDF(c.UserContext(), data)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="requisicion-`+data.Requisition.ID+`.pdf"`)
	return c.Send(pdfBytes)
}
