package constant

import "time"

const (
	QUERY_TIMEOUT_DURATION = 10 * time.Second
	DefaultPageSize        = 20
	MaxPageSize            = 100
)

const (
	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"
)

const (
	JWT_TYPE_ACCESS  = "access"
	JWT_TYPE_REFRESH = "refresh"
)

const (
	OAUTH_PROVIDER_GOOGLE = "google"
)

// gin context keys
const (
	CTX_USER       = "user"
	CTX_REQUEST_ID = "requestId"
)

const HEADER_REQUEST_ID = "X-Request-Id"
