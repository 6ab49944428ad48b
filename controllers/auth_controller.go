package controllers

import (
	"errors"
	"net/http"

	"github.com/ShounakM04/Rescue-Bites/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /provider/register
func (ac *AuthController) RegisterProvider(c *gin.Context) {
	var input services.RegisterProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	provider, err := ac.Svc.RegisterProvider(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": provider})
}

// POST /provider/login
func (ac *AuthController) LoginProvider(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	token, err := ac.Svc.LoginProvider(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

// POST /consumer/register
func (ac *AuthController) RegisterConsumer(c *gin.Context) {
	var input services.RegisterConsumerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	consumer, err := ac.Svc.RegisterConsumer(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": consumer})
}

// POST /consumer/login
func (ac *AuthController) LoginConsumer(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	token, err := ac.Svc.LoginConsumer(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
}

func respondAuthError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
}
