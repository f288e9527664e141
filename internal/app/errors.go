package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kushdevteam/bunproj-sub004/internal/provider"
)

// FormatConnectionError formats a provider, RPC or storage error with
// actionable guidance
func FormatConnectionError(err error) string {
	errMsg := err.Error()

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Sprintf(
				"Backend rejected the request (%d).\n\n"+
					"Troubleshooting steps:\n"+
					"  1. Check the API key passed with --header or provider.headers\n"+
					"  2. Verify the key has access to the analytics endpoints\n"+
					"\nOriginal error: %s", apiErr.StatusCode, errMsg)
		case http.StatusNotFound:
			return fmt.Sprintf(
				"Analytics endpoint not found.\n\n"+
					"Troubleshooting steps:\n"+
					"  1. Verify provider.base_url points at the bundler backend root\n"+
					"  2. Check the backend version exposes /api/analytics\n"+
					"\nOriginal error: %s", errMsg)
		}
	}

	if strings.Contains(errMsg, "connection refused") {
		return fmt.Sprintf(
			"Connection refused: the service is not accepting connections.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Verify the bundler backend, RPC node or Redis is running\n"+
				"  2. Check provider.base_url, network.rpc_url and provider.redis.addr\n"+
				"  3. Verify firewall settings allow the connection\n"+
				"\nOriginal error: %s", errMsg)
	}

	if strings.Contains(errMsg, "no such host") || strings.Contains(errMsg, "unknown host") {
		return fmt.Sprintf(
			"Host not found: Cannot resolve hostname.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Verify the hostname in your configuration\n"+
				"  2. Try using IP address instead of hostname\n"+
				"\nOriginal error: %s", errMsg)
	}

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline exceeded") {
		return fmt.Sprintf(
			"Request timeout: the service did not respond in time.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Check network connectivity to the backend\n"+
				"  2. Raise provider.timeout for large ranges such as 30d or all\n"+
				"\nOriginal error: %s", errMsg)
	}

	if strings.Contains(errMsg, "database is locked") {
		return fmt.Sprintf(
			"History database is locked.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Close other bundlewatch processes using the same storage.path\n"+
				"  2. Point storage.path at a separate file\n"+
				"\nOriginal error: %s", errMsg)
	}

	if strings.Contains(errMsg, "NOAUTH") || strings.Contains(errMsg, "WRONGPASS") {
		return fmt.Sprintf(
			"Redis authentication failed.\n\n"+
				"Troubleshooting steps:\n"+
				"  1. Set provider.redis.password or BUNDLEWATCH_PROVIDER_REDIS_PASSWORD\n"+
				"\nOriginal error: %s", errMsg)
	}

	// Default error formatting
	return fmt.Sprintf(
		"Metrics provider error:\n\n"+
			"%s\n\n"+
			"Check your configuration in config.yaml or environment variables.\n"+
			"Run with --debug flag for detailed logs.", errMsg)
}

// ErrorSummary returns the first line of FormatConnectionError, for the
// dashboard's single-line error banner.
func ErrorSummary(msg string) string {
	formatted := FormatConnectionError(errors.New(msg))
	first, _, _ := strings.Cut(formatted, "\n")
	if first == "Metrics provider error:" {
		return msg
	}
	return first + " " + msg
}
