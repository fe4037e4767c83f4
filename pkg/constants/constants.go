package constants

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	UserKey      ContextKey = "user"
	RequestIDKey ContextKey = "requestID"
	ParamsKey    ContextKey = "params"
)
