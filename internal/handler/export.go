package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goncalo-araujo/babyshower/internal/ledger"
	"github.com/goncalo-araujo/babyshower/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"ID", "Item", "Contributor", "Amount (EUR)", "Message", "Date"}

func exportRow(r ledger.ContributionWithItem) []string {
	return []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.ItemTitle,
		r.Name,
		strconv.FormatFloat(util.CentToEuro(r.Amount), 'f', 2, 64),
		r.Message,
		r.CreatedAt.Format("2006-01-02"),
	}
}

// Export downloads all contributions as CSV (default) or XLSX. Admin only.
func (h *ContributionHandler) Export(c *gin.Context) {
	rows, err := h.Ledger.ListContributions()
	if err != nil {
		respondError(c, err)
		return
	}

	if c.DefaultQuery("format", "csv") == "xlsx" {
		h.exportXLSX(c, rows)
		return
	}
	h.exportCSV(c, rows)
}

func (h *ContributionHandler) exportCSV(c *gin.Context, rows []ledger.ContributionWithItem) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"contributions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so Excel detects the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, r := range rows {
		writer.Write(exportRow(r))
	}
}

func (h *ContributionHandler) exportXLSX(c *gin.Context, rows []ledger.ContributionWithItem) {
	f := excelize.NewFile()
	sheetName := "Contributions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for idx, r := range rows {
		row := idx + 2
		for i, value := range exportRow(r) {
			f.SetCellValue(sheetName, fmt.Sprintf("%c%d", 'A'+i, row), value)
		}
	}

	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, "E", "E", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"contributions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "internal error")
	}
}
