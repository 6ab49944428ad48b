package controllers

import (
	"net/http"
	"os"

	"github.com/ShounakM04/Rescue-Bites/services"
	"github.com/ShounakM04/Rescue-Bites/utils"

	"github.com/gin-gonic/gin"
)

type UploadRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /upload
// Stores a listing photo and hands back an opaque URL. When moderation is
// turned on, photos that don't look like food are rejected before upload.
func UploadListingImage(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input"})
		return
	}

	imageData, contentType, err := utils.DecodeBase64Image(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if os.Getenv("MODERATE_UPLOADS") == "true" {
		rek, err := services.NewRekognitionService()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		ok, labels, err := rek.LooksLikeFood(imageData)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "image does not appear to show food",
				"labels":  labels,
			})
			return
		}
	}

	url, err := utils.UploadListingImage(imageData, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Upload failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}
