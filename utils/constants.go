// File: utils/constants.go
package utils

// AuthCachePrefix is the prefix used for revoked token keys.
const AuthCachePrefix = "auth:revoked:"
