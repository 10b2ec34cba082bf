package middlewares

// gin context keys
const (
	CtxRequestID = "request_id"
	CtxUsername  = "auth.username"
)
