package common

const (
	// AuthorizationHeader carries the bearer token on outbound API requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme prefixes the token in the Authorization header.
	BearerScheme = "Bearer "

	// DeviceIDHeader carries the per-install device identifier.
	DeviceIDHeader = "X-Device-ID"
)
