package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moldcart/catalog-api/internal/dto"
	"github.com/moldcart/catalog-api/internal/service"
)

type UploadHandler struct {
	importer *service.ImporterService
}

func NewUploadHandler(importer *service.ImporterService) *UploadHandler {
	return &UploadHandler{importer: importer}
}

// Upload ingests a multipart spreadsheet (field name "xlsxFile") into the
// catalog.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("xlsxFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	imported, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		if errors.Is(err, service.ErrEmptySheet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "spreadsheet has no data rows"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import spreadsheet"})
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: imported})
}
