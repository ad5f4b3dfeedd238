package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/childcheck-app/qr"
	"github.com/yeremiapane/childcheck-app/services"
	"github.com/yeremiapane/childcheck-app/utils"
)

type ScanController struct {
	Service *services.ParentService
}

func NewScanController(service *services.ParentService) *ScanController {
	return &ScanController{Service: service}
}

// Scan memverifikasi payload QR hasil pindaian. Payload salah bentuk,
// parent tak dikenal, dan secret salah semuanya menghasilkan pesan
// generik yang sama.
func (sc *ScanController) Scan(c *gin.Context) {
	var payload qr.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondJSON(c, http.StatusBadRequest, "Invalid QR code", nil)
		return
	}
	if payload.Family == "" || payload.Secret == "" {
		utils.RespondJSON(c, http.StatusBadRequest, "Invalid QR code", nil)
		return
	}

	res := sc.Service.ScanQrCode(payload)
	utils.RespondResult(c, "Scan successful", res)
}
