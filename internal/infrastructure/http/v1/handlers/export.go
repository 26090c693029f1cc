package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"stockscope/internal/infrastructure/export"
)

// writeWorkbook streams rows as an xlsx attachment named after prefix.
func writeWorkbook[T any](c *gin.Context, prefix string, cols []export.Column[T], rows []T) error {
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(prefix, time.Now())))
	return export.Write(c.Writer, prefix, cols, rows)
}
