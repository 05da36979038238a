// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// GeocodingError ters geokodlamaya özgü hataları temsil eder.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType geokodlama hata türlerini tanımlar.
type ErrorType int

const (
	// ErrorTypeUnknown bilinmeyen hata.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit istek limiti aşıldı.
	ErrorTypeRateLimit
	// ErrorTypeTimeout bağlantı zaman aşımı.
	ErrorTypeTimeout
	// ErrorTypeService servis geçici olarak kullanılamıyor.
	ErrorTypeService
	// ErrorTypeInvalidRequest geçersiz istek.
	ErrorTypeInvalidRequest
	// ErrorTypeNetwork ağ hatası.
	ErrorTypeNetwork
)

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is transient: the caller may back
// off and try the same request again. Anything else is a programming fault
// or a permanent provider rejection and must not be retried.
func IsRetryable(err error) bool {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		switch geoErr.Type {
		case ErrorTypeRateLimit, ErrorTypeTimeout, ErrorTypeService, ErrorTypeNetwork:
			return true
		}

		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}

// ClassifyHTTPStatus classifies a non-2xx provider response.
func ClassifyHTTPStatus(statusCode int) *GeocodingError {
	switch statusCode {
	case http.StatusTooManyRequests: // 429
		return &GeocodingError{
			Type:    ErrorTypeRateLimit,
			Message: "istek limiti aşıldı",
		}
	case http.StatusBadRequest: // 400
		return &GeocodingError{
			Type:    ErrorTypeInvalidRequest,
			Message: "geçersiz istek",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &GeocodingError{
			Type:    ErrorTypeService,
			Message: fmt.Sprintf("servis kullanılamıyor (kod %d)", statusCode),
		}
	default:
		return &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("HTTP hatası %d", statusCode),
		}
	}
}
