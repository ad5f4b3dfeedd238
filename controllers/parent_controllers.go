package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/childcheck-app/services"
	"github.com/yeremiapane/childcheck-app/utils"
)

type ParentController struct {
	Service *services.ParentService
}

func NewParentController(service *services.ParentService) *ParentController {
	return &ParentController{Service: service}
}

// CreateParent sekaligus menerbitkan QR secret untuk keluarga tsb
func (pc *ParentController) CreateParent(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name" binding:"required"`
		LastName  string `json:"last_name" binding:"required"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := pc.Service.CreateParent(req.FirstName, req.LastName, req.Phone, req.Email)
	utils.RespondResult(c, "Parent created", res)
}

// GetAllParents
func (pc *ParentController) GetAllParents(c *gin.Context) {
	res := pc.Service.ListParents()
	utils.RespondResult(c, "List of parents", res)
}

// GetQrCode -> PNG image, bukan JSON
func (pc *ParentController) GetQrCode(c *gin.Context) {
	res := pc.Service.GenerateQrCode(c.Param("parent_id"))
	if !res.Success {
		utils.RespondResult(c, "", res)
		return
	}

	png, ok := res.Data.([]byte)
	if !ok {
		utils.RespondJSON(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetQrData -> payload mentah untuk klien yang merender barcode sendiri
func (pc *ParentController) GetQrData(c *gin.Context) {
	res := pc.Service.GetQrData(c.Param("parent_id"))
	utils.RespondResult(c, "QR payload", res)
}
