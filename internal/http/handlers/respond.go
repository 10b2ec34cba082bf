package handlers

import (
	"net/http"

	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

const (
	msgMissingParams     = "Missing parameter(s)"
	msgInvalidBody       = "Invalid request body"
	msgWrongCredentials  = "Wrong username and/or password"
	msgUsernameTaken     = "Username already exists"
	msgRulesMismatch     = "Username and/or password do not match the rules"
	msgMissingToken      = "Missing token"
	msgInvalidToken      = "Missing or invalid token"
	msgMissingUsername   = "Missing username"
	msgNoProfile         = "This user does not exist or does not have a profile yet"
	msgMissingQuery      = "Missing search query"
	msgStoreUnavailable  = "Storage is currently unavailable"
	msgProfileSaved      = "Profile created/updated successfully"
	msgTokenValid        = "Token is valid"
	msgTokenWrong        = "Wrong token"
	msgTokenNotGenerated = "Could not generate token"
)

// APIError is the body of every failed request.
type APIError struct {
	Success   bool        `json:"success"`
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	ctx.JSON(status, APIError{
		Success:   false,
		Status:    status,
		Error:     message,
		RequestID: requestIDFrom(ctx),
		Details:   details,
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}

func RespondUnavailable(ctx *gin.Context) {
	RespondError(ctx, http.StatusServiceUnavailable, msgStoreUnavailable, nil)
}
