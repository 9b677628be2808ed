package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stocksync-service/internal/config"
	"stocksync-service/internal/models"
	"stocksync-service/internal/parser"
	"stocksync-service/internal/services"
)

// SyncHandler handles the upload -> reconcile -> download flow.
type SyncHandler struct {
	cfg     *config.Config
	service *services.SyncService
	logger  *logrus.Logger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(cfg *config.Config, service *services.SyncService, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{cfg: cfg, service: service, logger: logger}
}

// Sync reconciles a physical stock export against a Shopify export.
// @Summary Synchronize physical stock with Shopify
// @Description Uploads a physical stock export and a Shopify export, returns the updated Shopify CSVs and a reconciliation report.
// @Tags sync
// @Accept multipart/form-data
// @Produce json
// @Param physical formData file true "Physical stock export (CSV)"
// @Param shopify formData file true "Shopify export (CSV or XLSX)"
// @Success 200 {object} models.SyncResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /sync [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}

	shopifyCSV, err := services.WriteCSV(result.Updated)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "CSV_WRITE_FAILED", err.Error())
		return
	}
	combinedCSV, err := services.WriteCSV(result.Combined)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "CSV_WRITE_FAILED", err.Error())
		return
	}
	filteredCSV, err := services.WriteCSV(result.Filtered)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "CSV_WRITE_FAILED", err.Error())
		return
	}
	reportCSV, err := services.BuildReportCSV(result.Stats)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "CSV_WRITE_FAILED", err.Error())
		return
	}

	resp := models.SyncResponse{
		Success:        true,
		ShopifyCSVB64:  base64.StdEncoding.EncodeToString(shopifyCSV),
		CombinedCSVB64: base64.StdEncoding.EncodeToString(combinedCSV),
		FilteredCSVB64: base64.StdEncoding.EncodeToString(filteredCSV),
		ReportCSVB64:   base64.StdEncoding.EncodeToString(reportCSV),
		Report:         services.BuildReport(result.Stats),
		Stats:          result.Stats,
	}
	if len(result.NewProducts.Rows) > 0 {
		newProductsCSV, err := services.WriteCSV(result.NewProducts)
		if err != nil {
			h.fail(c, http.StatusInternalServerError, "CSV_WRITE_FAILED", err.Error())
			return
		}
		resp.NewProductsCSVB64 = base64.StdEncoding.EncodeToString(newProductsCSV)
		resp.HasNewProducts = true
	}

	c.JSON(http.StatusOK, resp)
}

// ExportReport runs the same reconciliation and streams the report as a
// styled XLSX workbook.
// @Summary Synchronize and download the report as XLSX
// @Tags sync
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param physical formData file true "Physical stock export (CSV)"
// @Param shopify formData file true "Shopify export (CSV or XLSX)"
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Router /sync/report [post]
func (h *SyncHandler) ExportReport(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}

	f, err := services.BuildReportXLSX(result.Stats)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "REPORT_FAILED", err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=sync_report.xlsx")
	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("failed to stream XLSX report")
	}
}

// run parses both uploads and executes the reconciliation. It writes the
// error response itself so handlers only deal with the happy path.
func (h *SyncHandler) run(c *gin.Context) (*models.SyncResult, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadMB<<20)

	physFile, _, err := c.Request.FormFile("physical")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload the physical stock file as 'physical'")
		return nil, false
	}
	defer physFile.Close()

	shopFile, shopHeader, err := c.Request.FormFile("shopify")
	if err != nil {
		h.fail(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload the Shopify export as 'shopify'")
		return nil, false
	}
	defer shopFile.Close()

	physRaw, err := io.ReadAll(physFile)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "UPLOAD_FAILED", err.Error())
		return nil, false
	}

	physical, err := parser.ParsePhysical(physRaw, h.cfg.Physical)
	if err != nil {
		h.parseFail(c, err)
		return nil, false
	}

	shopify, err := parser.ParseShopify(shopFile, shopHeader.Filename, h.cfg.Shopify)
	if err != nil {
		h.parseFail(c, err)
		return nil, false
	}

	return h.service.Run(physical, shopify), true
}

func (h *SyncHandler) parseFail(c *gin.Context, err error) {
	var parseErr *models.ParseError
	if errors.As(err, &parseErr) {
		h.fail(c, http.StatusBadRequest, "PARSE_ERROR", parseErr.Error())
		return
	}
	h.fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}

func (h *SyncHandler) fail(c *gin.Context, status int, code, message string) {
	h.logger.WithFields(logrus.Fields{"code": code, "status": status}).Warn(message)
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error:   models.Error{Code: code, Message: message},
	})
}
