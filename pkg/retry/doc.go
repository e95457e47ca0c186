// Package retry provides configurable retry logic with pluggable backoff
// strategies. Only errors the errors package classifies as retryable
// (transport failures, server errors) are retried by default.
package retry
