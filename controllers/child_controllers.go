package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/childcheck-app/services"
	"github.com/yeremiapane/childcheck-app/utils"
)

type ChildController struct {
	Service *services.ChildService
}

func NewChildController(service *services.ChildService) *ChildController {
	return &ChildController{Service: service}
}

// CreateChild menempelkan anak ke parent di path
func (cc *ChildController) CreateChild(c *gin.Context) {
	var input services.CreateChildInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := cc.Service.CreateChild(c.Param("parent_id"), input)
	utils.RespondResult(c, "Child created", res)
}

// GetAllChildren -> hanya anak aktif, field sensitif sudah didekripsi
func (cc *ChildController) GetAllChildren(c *gin.Context) {
	res := cc.Service.ListChildren()
	utils.RespondResult(c, "List of children", res)
}

// DeleteChild -> soft delete
func (cc *ChildController) DeleteChild(c *gin.Context) {
	res := cc.Service.DeleteChild(c.Param("child_id"))
	utils.RespondResult(c, "Child removed", res)
}
