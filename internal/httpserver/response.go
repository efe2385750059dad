package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// envelope is the uniform response shape for every JSON endpoint.
type envelope struct {
	Status  bool        `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

func respond(c *gin.Context, code int, status bool, data interface{}, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	if data == nil {
		data = gin.H{}
	}
	c.JSON(code, envelope{Status: status, Data: data, Message: message})
}
