package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/middleware"
	"github.com/Swethakotuluru11/user-dashboard/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExportHandler serves the caller's posts as a CSV or XLSX download.
type ExportHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewExportHandler(db *gorm.DB, log *zap.Logger) *ExportHandler {
	return &ExportHandler{DB: db, Log: log}
}

func (h *ExportHandler) ownPosts(c *gin.Context) ([]models.Post, bool) {
	claims := middleware.CurrentClaims(c)

	var posts []models.Post
	if err := h.DB.Where("user_id = ?", claims.UserID).
		Order("id DESC").
		Find(&posts).Error; err != nil {
		h.Log.Error("export: fetch posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching posts"})
		return nil, false
	}
	return posts, true
}

var exportHeader = []string{"ID", "Title", "Text", "Image URL", "Created"}

func exportRow(p *models.Post) []string {
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Title,
		p.Text,
		p.ImageURL,
		p.CreatedAt.Format(time.RFC3339),
	}
}

// ExportCSV streams the caller's posts as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	posts, ok := h.ownPosts(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeader)
	for i := range posts {
		_ = writer.Write(exportRow(&posts[i]))
	}
}

// ExportXLSX writes the caller's posts as an Excel workbook.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	posts, ok := h.ownPosts(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Posts"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		h.Log.Error("export: create sheet", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error exporting posts"})
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}
	for row := range posts {
		for col, value := range exportRow(&posts[row]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"posts_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.Log.Error("export: write xlsx", zap.Error(err))
	}
}
