// Package response is the JSON envelope every handler replies with. Lobby
// snapshots, card lists and error strings all travel inside the same
// {code, data, msg} shape so clients parse one frame.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body mirrors the HTTP status in code so clients behind
// status-swallowing proxies can still branch on it.
type Body struct {
	Code int         `json:"code"`
	Data interface{} `json:"data"`
	Msg  string      `json:"msg"`
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, "")
}

func SuccessWithMsg(c *gin.Context, data interface{}, msg string) {
	JSON(c, http.StatusOK, data, msg)
}

func Error(c *gin.Context, status int, msg string) {
	JSON(c, status, gin.H{}, msg)
}

func JSON(c *gin.Context, status int, data interface{}, msg string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Body{
		Code: status,
		Data: data,
		Msg:  msg,
	})
}
