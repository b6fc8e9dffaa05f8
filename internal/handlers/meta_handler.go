package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdash/internal/models"
)

// Meta serves the reference lists the UI renders selects from.
func Meta(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stages":         models.Stages,
		"activityTypes":  models.ActivityTypes,
		"contactSources": models.ContactSources,
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
