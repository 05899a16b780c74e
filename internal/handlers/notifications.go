package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Notifications godoc
// @Summary      Drain pending notices
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  notify.Notice
// @Router       /notifications [get]
func Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": workspaceOf(c).Inbox.Drain()})
}
