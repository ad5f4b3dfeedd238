package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/childcheck-app/services"
	"github.com/yeremiapane/childcheck-app/utils"
)

type AuthController struct {
	Service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service}
}

// Login -> verifikasi kredensial, return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.Login(input.Email, input.Password)
	utils.RespondResult(c, "Login successful", res)
}

// Register staff baru, khusus admin
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Role      string `json:"role"` // admin, staff
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := ac.Service.RegisterStaff(req.FirstName, req.LastName, req.Email, req.Password, req.Role)
	utils.RespondResult(c, "Staff registered", res)
}

// Logout -> token masuk blacklist sampai kadaluarsa
func (ac *AuthController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("missing bearer token"))
		return
	}

	res := ac.Service.Logout(c.Request.Context(), token)
	utils.RespondResult(c, "Logged out", res)
}
