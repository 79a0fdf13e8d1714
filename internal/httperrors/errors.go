// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"playcap/cli/internal/logging"
)

// FormatNetworkError converts technical HTTP/network errors into user-friendly messages.
// It detects common error types (timeout, DNS, connection refused) and displays
// helpful troubleshooting information. The returned error is the wrapped original
// for logging/debugging.
func FormatNetworkError(err error, context string) error {
	if err == nil {
		return nil
	}

	switch {
	case isTimeoutError(err):
		pterm.Printf("⏱️  Connection timeout while %s\n", context)
		pterm.Println()
		pterm.Println("The server took too long to respond. This could mean:")
		pterm.Println("  • Slow internet connection")
		pterm.Println("  • Server is under heavy load")
		pterm.Println()
		pterm.Println("Please try again in a few moments.")
	case isDNSError(err):
		pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
		pterm.Println()
		pterm.Println("Please check:")
		pterm.Println("  • Your internet connection is working")
		pterm.Println("  • DNS settings are correct")
	case isConnectionRefusedError(err):
		pterm.Printf("🚫 Connection refused while %s\n", context)
		pterm.Println()
		pterm.Println("The server is not accepting connections. This could mean:")
		pterm.Println("  • The service is temporarily down")
		pterm.Println("  • Firewall is blocking the connection")
		pterm.Println()
		pterm.Println("Please try again later or contact support.")
	default:
		pterm.Printf("❌ Cannot reach the Playcap service while %s\n", context)
		pterm.Println()
		pterm.Println("Please check:")
		pterm.Println("  • Your internet connection")
		pterm.Println("  • Firewall settings that might block HTTPS requests")
		pterm.Println()
		pterm.Debug.Printf("Technical details: %s\n", logging.Mask(err.Error()))
	}
	pterm.Println()

	return fmt.Errorf("network error: %w", err)
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}
