package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts an error into a code and message safe to return to
// clients. Database details stay out of the response; the caller logs the
// raw error separately.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL constraint violations

	// 2-1. Unique constraint (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr, context)
	}

	// 2-2. Foreign key constraint (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The referenced record does not exist or is still in use",
		}
	}

	// 2-3. Not-null constraint (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// 3. Network errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again later",
		}
	}

	// 4. Fallback
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "upc") || strings.Contains(errLower, "idx_products_upc") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A product with this UPC already exists",
		}
	}

	if strings.Contains(errLower, "order_number") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "An order with this order number already exists",
		}
	}

	if strings.Contains(errLower, "season_prices") || strings.Contains(errLower, "idx_season_prices_product_season") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "A price for this product and season is already recorded",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "A record with these values already exists",
	}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "brand":
		return "Brand not found"
	case "season":
		return "Season not found"
	case "location":
		return "Location not found"
	case "product":
		return "Product not found"
	case "order":
		return "Order not found"
	case "upload":
		return "Catalog upload not found"
	default:
		return "The requested resource was not found"
	}
}

func getDefaultErrorMessage(context string) string {
	switch context {
	case "import":
		return "Catalog import failed. Please check the file and try again"
	case "order":
		return "Order processing failed. Please try again later"
	default:
		return "An internal error occurred. Please try again later"
	}
}
