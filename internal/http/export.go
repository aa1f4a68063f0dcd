package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglog/internal/utils"
)

type ExportController struct {
	renderer MarkdownRenderer
}

func NewExportController(renderer MarkdownRenderer) *ExportController {
	return &ExportController{renderer: renderer}
}

// DownloadMarkdown serves the caller's quotes as a Markdown attachment.
func (controller *ExportController) DownloadMarkdown(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	content, _, err := controller.renderer.Render(owner)
	if err != nil {
		respondDomainError(c, err, "export markdown")
		return
	}

	filename := utils.SanitizeFilename(owner) + ".md"
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", content)
}
