package dto

// DashboardSummaryDTO contadores del panel principal.
type DashboardSummaryDTO struct {
	TotalMaterials      int64  `json:"total_materials"`
	LowStockMaterials   int64  `json:"low_stock_materials"`
	PendingRequisitions int64  `json:"pending_requisitions"`
	MovementsToday      int64  `json:"movements_today"`
	DateLabel           string `json:"date_label"` // ej: "Septiembre 2026"
}
