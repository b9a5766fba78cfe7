package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appmess "github.com/messhall/backend/internal/application/mess"
	"github.com/messhall/backend/internal/infrastructure/printing"
	"github.com/messhall/backend/internal/infrastructure/storage"
)

// ReportHandler handles kitchen reporting HTTP requests
type ReportHandler struct {
	BaseHandler
	reportService *appmess.ReportService
	printer       *printing.FoodCountPrinter
	archive       storage.ReportArchive
	logger        *zap.Logger
}

// NewReportHandler creates a new report handler. Printer and archive may
// be nil when PDF export is disabled.
func NewReportHandler(
	reportService *appmess.ReportService,
	printer *printing.FoodCountPrinter,
	archive storage.ReportArchive,
	logger *zap.Logger,
) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{
		reportService: reportService,
		printer:       printer,
		archive:       archive,
		logger:        logger,
	}
}

// FileAllergyReportRequest represents a student's report that a menu
// entry conflicts with their allergies
type FileAllergyReportRequest struct {
	MenuEntryID string `json:"menu_entry_id" binding:"required,uuid"`
	Note        string `json:"note" binding:"max=1000"`
	Date        string `json:"date" binding:"omitempty"`
}

// FoodCount returns the kitchen provisioning report for a date (query
// parameter "date", default today)
func (h *ReportHandler) FoodCount(c *gin.Context) {
	date, ok := parseDate(c.Query("date"))
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	result, err := h.reportService.FoodCount(c.Request.Context(), date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportFoodCountPDF renders the food count report as a PDF and streams
// it to the client. A copy is stored in the report archive when one is
// configured; archive failures are logged but never block the download.
func (h *ReportHandler) ExportFoodCountPDF(c *gin.Context) {
	if h.printer == nil {
		h.Error(c, http.StatusServiceUnavailable, "ERR_INVALID_STATE", "PDF export is not enabled")
		return
	}

	date, ok := parseDate(c.Query("date"))
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	if date.IsZero() {
		date = time.Now()
	}

	ctx := c.Request.Context()

	report, err := h.reportService.FoodCount(ctx, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.printer.RenderFoodCount(ctx, report)
	if err != nil {
		h.logger.Error("Failed to render food count PDF",
			zap.Time("date", date),
			zap.Error(err))
		h.InternalError(c, "Failed to render report")
		return
	}

	if h.archive != nil {
		if key, err := h.archive.Store(ctx, report.Date, result.PDFData); err != nil {
			h.logger.Warn("Failed to archive food count PDF",
				zap.Time("date", date),
				zap.Error(err))
		} else {
			h.logger.Info("Archived food count PDF",
				zap.String("key", key),
				zap.Int("pages", result.PageCount))
		}
	}

	filename := "food-count-" + report.Date.Format(dateLayout) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", result.PDFData)
}

// FoodCountArchiveURL returns a time-limited download URL for an
// archived food count PDF
func (h *ReportHandler) FoodCountArchiveURL(c *gin.Context) {
	if h.archive == nil {
		h.Error(c, http.StatusServiceUnavailable, "ERR_INVALID_STATE", "Report archive is not enabled")
		return
	}

	date, ok := parseDate(c.Query("date"))
	if !ok || date.IsZero() {
		h.BadRequest(c, "Missing or invalid date, expected YYYY-MM-DD")
		return
	}

	ctx := c.Request.Context()
	key := h.archive.Key(date)

	exists, err := h.archive.Exists(ctx, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !exists {
		h.NotFound(c, "No archived report for that date")
		return
	}

	url, expiresAt, err := h.archive.DownloadURL(ctx, key, 15*time.Minute)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"url":        url,
		"expires_at": expiresAt,
	})
}

// Dashboard returns the admin landing-page counters
func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// FileAllergyReport lets the authenticated student report a menu entry
// that conflicts with their allergies
func (h *ReportHandler) FileAllergyReport(c *gin.Context) {
	studentID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req FileAllergyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: menu_entry_id is required")
		return
	}

	menuEntryID, err := uuid.Parse(req.MenuEntryID)
	if err != nil {
		h.BadRequest(c, "Invalid menu entry ID")
		return
	}

	date, ok := parseDate(req.Date)
	if !ok {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	info, err := h.reportService.FileAllergyReport(c.Request.Context(), appmess.FileAllergyReportInput{
		StudentID:   studentID,
		MenuEntryID: menuEntryID,
		Note:        req.Note,
		Date:        date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, info)
}

// ListAllergyReports returns filed allergy reports, optionally filtered
// by date (query parameter "date")
func (h *ReportHandler) ListAllergyReports(c *gin.Context) {
	var datePtr *time.Time
	if raw := c.Query("date"); raw != "" {
		date, ok := parseDate(raw)
		if !ok {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		datePtr = &date
	}

	infos, err := h.reportService.ListAllergyReports(c.Request.Context(), datePtr)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, infos)
}
