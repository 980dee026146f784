package middlewares

// gin context keys shared between middlewares and handlers.
const (
	CtxRequestID = "request_id"
	CtxUserID    = "auth.userID"
	CtxUsername  = "auth.username"
	CtxClaims    = "auth.claims"
)
