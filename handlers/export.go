package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"snow-backend/models"
)

// GET /api/admin/export?month=11&year=2025
//
// Streams the verification history as a spreadsheet. Month/year filter is
// optional; without it the whole table is exported.
func (h *Handler) ExportVerifications(c *gin.Context) {
	monthStr := c.Query("month")
	yearStr := c.Query("year")

	query := h.DB.Order("created_at desc")
	if monthStr != "" && yearStr != "" {
		month, _ := strconv.Atoi(monthStr)
		year, _ := strconv.Atoi(yearStr)

		startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		endDate := startDate.AddDate(0, 1, 0)

		query = query.Where("created_at >= ? AND created_at < ?", startDate, endDate)
	}

	var records []models.VerificationRecord
	query.Find(&records)

	f := excelize.NewFile()
	sheetName := "Verifications"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"No", "Date", "Time", "Reference", "Outcome", "Gateway Status", "Currency", "Amount (kobo)", "Customer Email"}
	for i, hcol := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, hcol)
	}

	styleHeader, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	f.SetCellStyle(sheetName, "A1", "I1", styleHeader)

	styleOK, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#10B981"}})
	styleFail, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#EF4444"}})

	row := 2
	for i, r := range records {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.CreatedAt.Format("02-01-2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.CreatedAt.Format("15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.Reference)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Outcome)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.GatewayStatus)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Currency)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), r.AmountKobo)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), r.CustomerEmail)

		if r.Outcome == "verified-success" {
			f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), styleOK)
		} else {
			f.SetCellStyle(sheetName, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), styleFail)
		}

		row++
	}

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 28)
	f.SetColWidth(sheetName, "E", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 10)
	f.SetColWidth(sheetName, "H", "H", 15)
	f.SetColWidth(sheetName, "I", "I", 28)

	fileName := fmt.Sprintf("Verifications_%s.xlsx", time.Now().Format("20060102"))

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "export-failed"})
	}
}
