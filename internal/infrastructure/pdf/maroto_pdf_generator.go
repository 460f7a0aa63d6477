// Package pdf genera el comprobante imprimible de una requisición.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén Escolar  │  N° Requisición + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITUD: material, cantidad, prioridad, fecha límite     │
//	│  JUSTIFICACIÓN                                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ESTADO: pendiente / aprobada / rechazada + decisión        │
//	│  FIRMAS: solicitante | almacén                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/almacen-escolar/internal/application/requisition"
	"github.com/tu-usuario/almacen-escolar/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera comprobantes de requisición usando Maroto v2.
type MarotoPDFGenerator struct {
	schoolName string
}

// NewMarotoPDFGenerator construye el generador con el nombre del plantel.
func NewMarotoPDFGenerator(schoolName string) *MarotoPDFGenerator {
	if schoolName == "" {
		schoolName = "Almacén Escolar"
	}
	return &MarotoPDFGenerator{schoolName: schoolName}
}

// GenerateVoucherPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateVoucherPDF(_ context.Context, data *requisition.VoucherData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Requisición", true).
		WithAuthor(g.schoolName, true).
		Build()

	m := maroto.New(cfg)

	r := &data.Requisition

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requestRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(statusRows(r)...)
	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del plantel (izq) y número + fecha (der).
func (g *MarotoPDFGenerator) headerRow(r *entity.Requisition) core.Row {
	fecha := r.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.schoolName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Control de materiales consumibles", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE REQUISICIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(r.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// requestRows: material solicitado, cantidad, prioridad y justificación.
func requestRows(data *requisition.VoucherData) []core.Row {
	r := &data.Requisition

	neededBy := "—"
	if r.NeededBy != nil {
		neededBy = r.NeededBy.Format("02/01/2006")
	}

	rows := []core.Row{
		row.New(10).Add(
			col.New(12).Add(
				text.New("SOLICITUD", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(fmt.Sprintf("Material: %s   |   Cantidad: %d %s   |   Prioridad: %s   |   Necesario para: %s",
					data.MaterialName, r.Quantity, data.MaterialUnit, priorityLabel(r.Priority), neededBy,
				), props.Text{Size: 8, Top: 6, Color: colorGray}),
			),
		),
		row.New(12).Add(
			col.New(12).Add(
				text.New("JUSTIFICACIÓN", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(r.Justification, props.Text{Size: 8, Top: 6}),
			),
		),
	}
	if r.Notes != "" {
		rows = append(rows, row.New(10).Add(
			col.New(12).Add(
				text.New("NOTAS", props.Text{
					Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
				}),
				text.New(r.Notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
			),
		))
	}
	return rows
}

// statusRows: estado actual y, si está decidida, quién y cuándo.
func statusRows(r *entity.Requisition) []core.Row {
	rows := []core.Row{
		row.New(8).Add(
			col.New(12).Add(
				text.New("ESTADO: "+statusLabel(r.Status), props.Text{
					Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 1,
				}),
			),
		),
	}
	if r.DecidedAt != nil {
		detail := "Decidida el " + r.DecidedAt.Format("02/01/2006 15:04")
		if r.Status == entity.StatusRejected && r.RejectionReason != "" {
			detail += "   |   Motivo: " + r.RejectionReason
		}
		rows = append(rows, row.New(6).Add(
			col.New(12).Add(
				text.New(detail, props.Text{Size: 8, Color: colorGray, Top: 1}),
			),
		))
	}
	return rows
}

// signatureRow: líneas de firma del solicitante y del almacén.
func signatureRow() core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New("_______________________________", props.Text{Size: 9, Align: align.Center, Top: 6}),
			text.New("Firma del solicitante", props.Text{Size: 8, Align: align.Center, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("_______________________________", props.Text{Size: 9, Align: align.Center, Top: 6}),
			text.New("Entrega - Almacén", props.Text{Size: 8, Align: align.Center, Top: 12, Color: colorGray}),
		),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// shortID primeros 8 caracteres del UUID para el encabezado.
func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "REQ-" + id
}

func statusLabel(status string) string {
	switch status {
	case entity.StatusPending:
		return "PENDIENTE"
	case entity.StatusApproved:
		return "APROBADA"
	case entity.StatusRejected:
		return "RECHAZADA"
	}
	return status
}

func priorityLabel(priority string) string {
	switch priority {
	case entity.PriorityLow:
		return "Baja"
	case entity.PriorityMedium:
		return "Media"
	case entity.PriorityHigh:
		return "Alta"
	case entity.PriorityUrgent:
		return "Urgente"
	}
	return priority
}
