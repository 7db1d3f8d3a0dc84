// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	redis_a "github.com/ammerola/palletflow/internal/adapters/redis_adapter"
	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// exportPageSize is the page size used when draining the item list for
// an export.
const exportPageSize = 1000

// ExportHandler handles export operations
type ExportHandler struct {
	items  ports.ItemService
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(items ports.ItemService, cache ports.CacheRepository, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		items:  items,
		cache:  cache,
		logger: logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.logger.InfoContext(ctx, "starting Excel export")

	items, err := h.collectItems(ctx, r)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve items for export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(items)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("items_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "Excel export completed",
		slog.Int("total_rows", len(items)),
		slog.String("filename", filename))
}

// ExportJSON handles GET /api/v1/export/json
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixExport, "json", h.cacheKeyFromQuery(r))
	var cachedData []byte
	if err := h.cache.Get(ctx, cacheKey, &cachedData); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Content-Length", strconv.Itoa(len(cachedData)))

		if _, err := w.Write(cachedData); err != nil {
			h.logger.ErrorContext(ctx, "failed to write cached JSON response",
				slog.String("error", err.Error()))
		}
		return
	}

	items, err := h.collectItems(ctx, r)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve items for export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to retrieve data")
		return
	}

	rows := make([]exportRow, 0, len(items))
	for i := range items {
		rows = append(rows, newExportRow(&items[i]))
	}

	response := struct {
		Items    []exportRow `json:"items"`
		Metadata struct {
			ExportDate time.Time `json:"export_date"`
			TotalItems int       `json:"total_items"`
		} `json:"metadata"`
	}{Items: rows}
	response.Metadata.ExportDate = time.Now()
	response.Metadata.TotalItems = len(rows)

	responseData, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal JSON export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to generate JSON")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseData)))

	if _, err := w.Write(responseData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write JSON response",
			slog.String("error", err.Error()))
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := h.cache.SetWithTTL(cacheCtx, cacheKey, responseData, 5*time.Minute); err != nil {
			h.logger.WarnContext(cacheCtx, "failed to cache JSON export",
				slog.String("error", err.Error()))
		}
	}()

	h.logger.InfoContext(ctx, "JSON export completed",
		slog.Int("total_rows", len(rows)))
}

// collectItems drains the item list, honoring the status and pallet_id
// query filters.
func (h *ExportHandler) collectItems(ctx context.Context, r *http.Request) ([]domain.Item, error) {
	params := ports.ItemListParams{
		Status:    r.URL.Query().Get("status"),
		SortBy:    "created_at",
		SortOrder: "desc",
		Page:      1,
		PageSize:  exportPageSize,
	}

	var all []domain.Item
	for {
		page, err := h.items.ListItems(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if params.Page >= page.TotalPages {
			break
		}
		params.Page++
	}

	return all, nil
}

// exportRow is the flattened item shape shared by the Excel and JSON
// exports. Profit fields are only present for sold items.
type exportRow struct {
	ID            string           `json:"id"`
	PalletID      string           `json:"pallet_id,omitempty"`
	Name          string           `json:"name"`
	Quantity      int              `json:"quantity"`
	Condition     string           `json:"condition"`
	Status        string           `json:"status"`
	PurchaseCost  *decimal.Decimal `json:"purchase_cost,omitempty"`
	AllocatedCost *decimal.Decimal `json:"allocated_cost,omitempty"`
	CostBasis     decimal.Decimal  `json:"cost_basis"`
	ListingPrice  *decimal.Decimal `json:"listing_price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	SaleDate      *time.Time       `json:"sale_date,omitempty"`
	Platform      string           `json:"platform,omitempty"`
	PlatformFee   *decimal.Decimal `json:"platform_fee,omitempty"`
	ShippingCost  *decimal.Decimal `json:"shipping_cost,omitempty"`
	NetProfit     *decimal.Decimal `json:"net_profit,omitempty"`
	ROIPercent    *decimal.Decimal `json:"roi_percent,omitempty"`
	DaysToSell    *int             `json:"days_to_sell,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func newExportRow(item *domain.Item) exportRow {
	row := exportRow{
		ID:            item.ID.String(),
		Name:          item.Name,
		Quantity:      item.Quantity,
		Condition:     string(item.Condition),
		Status:        string(item.Status),
		PurchaseCost:  item.PurchaseCost,
		AllocatedCost: item.AllocatedCost,
		CostBasis:     item.CostBasis(),
		ListingPrice:  item.ListingPrice,
		SalePrice:     item.SalePrice,
		SaleDate:      item.SaleDate,
		PlatformFee:   item.PlatformFee,
		ShippingCost:  item.ShippingCost,
		CreatedAt:     item.CreatedAt,
	}

	if item.PalletID != nil {
		row.PalletID = item.PalletID.String()
	}
	if item.Platform != nil {
		row.Platform = string(*item.Platform)
	}

	if item.IsSold() && item.SalePrice != nil {
		fee := decimal.Zero
		if item.PlatformFee != nil {
			fee = *item.PlatformFee
		}
		profit := analytics.NetProfit(*item.SalePrice, item.CostBasis(), fee, item.ShippingCost)
		row.NetProfit = &profit

		roi := analytics.ItemROI(item.SalePrice, item.AllocatedCost, item.PurchaseCost)
		row.ROIPercent = &roi

		if days := item.DaysToSell(); days >= 0 {
			row.DaysToSell = &days
		}
	}

	return row
}

// generateExcelFile creates an Excel workbook in memory from the items
func (h *ExportHandler) generateExcelFile(items []domain.Item) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Items")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"ID", "Pallet ID", "Name", "Quantity", "Condition", "Status",
		"Purchase Cost", "Allocated Cost", "Cost Basis", "Listing Price",
		"Sale Price", "Sale Date", "Platform", "Platform Fee",
		"Shipping Cost", "Net Profit", "ROI %", "Days to Sell", "Created At",
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range items {
		row := newExportRow(&items[i])
		dataRow := sheet.AddRow()

		for _, value := range []string{
			row.ID,
			row.PalletID,
			row.Name,
			strconv.Itoa(row.Quantity),
			row.Condition,
			row.Status,
			safeDecimal(row.PurchaseCost),
			safeDecimal(row.AllocatedCost),
			row.CostBasis.StringFixed(2),
			safeDecimal(row.ListingPrice),
			safeDecimal(row.SalePrice),
			safeDate(row.SaleDate),
			row.Platform,
			safeDecimal(row.PlatformFee),
			safeDecimal(row.ShippingCost),
			safeDecimal(row.NetProfit),
			safeDecimal(row.ROIPercent),
			safeInt(row.DaysToSell),
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		} {
			cell := dataRow.AddCell()
			cell.Value = value
		}
	}

	for i := 0; i < len(headers); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}

func (h *ExportHandler) cacheKeyFromQuery(r *http.Request) string {
	key := "all"
	if status := r.URL.Query().Get("status"); status != "" {
		key = "status_" + status
	}
	return key
}

// Utility methods for safe value conversion

func safeDecimal(value *decimal.Decimal) string {
	if value == nil {
		return ""
	}
	return value.StringFixed(2)
}

func safeDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format("2006-01-02")
}

func safeInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
