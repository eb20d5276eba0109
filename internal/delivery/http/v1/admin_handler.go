package v1

import (
	"net/http"
	"strconv"
	"time"

	"leadgen-backend/internal/delivery/http/response"
	"leadgen-backend/internal/domain"
	"leadgen-backend/internal/usecase"
	"leadgen-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// NewAdminHandler registers the read-only submission routes on an
// authenticated group
func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin/submissions")
	{
		admin.GET("/:kind", handler.List)
		admin.GET("/:kind/export", handler.Export)
		admin.GET("/:kind/:id", handler.Get)
	}
}

// List godoc
// @Summary      List Submissions
// @Description  Page through stored submissions of one kind, newest first.
// @Tags         admin
// @Produce      json
// @Param        kind    path      string  true   "contact | book-call | order"
// @Param        limit   query     int     false  "Page size (default 20, max 100)"
// @Param        offset  query     int     false  "Records to skip"
// @Success      200     {object}  response.Response{data=domain.Page}
// @Failure      401     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Security     BearerAuth
// @Router       /admin/submissions/{kind} [get]
func (h *AdminHandler) List(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.adminUC.List(c.Request.Context(), kind, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Submissions retrieved successfully", page)
}

// Get godoc
// @Summary      Get Submission
// @Tags         admin
// @Produce      json
// @Param        kind  path      string  true  "contact | book-call | order"
// @Param        id    path      string  true  "Submission ID"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Security     BearerAuth
// @Router       /admin/submissions/{kind}/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	rec, err := h.adminUC.Get(c.Request.Context(), kind, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Submission retrieved successfully", rec)
}

// Export godoc
// @Summary      Export Submissions
// @Description  Download every submission of one kind as an Excel workbook.
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        kind  path  string  true  "contact | book-call | order"
// @Success      200   {file}    binary
// @Failure      404   {object}  response.Response
// @Security     BearerAuth
// @Router       /admin/submissions/{kind}/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	data, err := h.adminUC.Export(c.Request.Context(), kind)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename := usecase.ExportFilename(kind, time.Now().UTC())
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseKind(c *gin.Context) (domain.Kind, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		_ = c.Error(apperror.NotFound("Unknown submission kind"))
		return "", false
	}
	return kind, true
}
