package recurring

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	runner *Runner
}

func NewHandler(runner *Runner) *Handler {
	return &Handler{runner: runner}
}

// Run is the scheduler-facing trigger. No request body; responds with a
// summary message, or an error body when the batch could not start.
func (h *Handler) Run(c *gin.Context) {
	summary, err := h.runner.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": summary})
}
