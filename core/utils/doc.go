// Package utils provides tolerant parsing helpers for upstream payload
// fields. The feed is third-party data: dates arrive in several shapes and
// occasionally as garbage, so every parser here coerces failure to nil
// instead of returning an error.
package utils
