package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// BadRequest answers every unknown route or method, echoing the full URL.
func BadRequest(ctx *gin.Context) {
	scheme := "http"
	if ctx.Request.TLS != nil {
		scheme = "https"
	}

	RespondBadRequest(ctx, fmt.Sprintf("%s://%s%s is not a correct request", scheme, ctx.Request.Host, ctx.Request.RequestURI))
}
