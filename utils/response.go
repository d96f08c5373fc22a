package utils

import "github.com/gin-gonic/gin"

// SuccessResponse wraps handler output in the envelope every endpoint
// returns. Pass nil data for message-only responses.
func SuccessResponse(message string, data interface{}) gin.H {
	resp := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		resp["data"] = data
	}
	return resp
}

func ErrorResponse(message string) gin.H {
	return gin.H{
		"success": false,
		"error":   message,
	}
}
