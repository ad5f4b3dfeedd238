package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondResult menerjemahkan Result dari service ke respons HTTP.
// successMessage hanya dipakai kalau hasilnya sukses.
func RespondResult(c *gin.Context, successMessage string, res *Result) {
	if res.Success {
		RespondJSON(c, res.StatusCode, successMessage, res.Data)
		return
	}
	RespondJSON(c, res.StatusCode, res.Err, nil)
}
