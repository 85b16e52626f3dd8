package model

// Standard error codes for API responses
const (
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeEmailTaken          = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeProductInactive     = "PRODUCT_INACTIVE"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeCartItemNotFound    = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeReviewNotFound      = "REVIEW_NOT_FOUND"
	ErrCodeDuplicateReview     = "DUPLICATE_REVIEW"
	ErrCodeDuplicateReport     = "DUPLICATE_REPORT"
	ErrCodePurchaseRequired    = "PURCHASE_REQUIRED"
	ErrCodeInvalidRating       = "INVALID_RATING"
	ErrCodeInvalidAttachment   = "INVALID_ATTACHMENT"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure with a stable code that the
// handler layer maps onto an HTTP status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "Email is already registered")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrProductInactive    = NewDomainError(ErrCodeProductInactive, "Product is no longer available")
	ErrInsufficientStock  = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available stock")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrCartItemNotFound   = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrReviewNotFound     = NewDomainError(ErrCodeReviewNotFound, "Review not found")
	ErrDuplicateReview    = NewDomainError(ErrCodeDuplicateReview, "You have already reviewed this product")
	ErrDuplicateReport    = NewDomainError(ErrCodeDuplicateReport, "You have already reported this review")
	ErrPurchaseRequired   = NewDomainError(ErrCodePurchaseRequired, "Only verified purchasers can review this product")
	ErrInvalidRating      = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrInvalidAttachment  = NewDomainError(ErrCodeInvalidAttachment, "Attachment must be a JPG, PNG or GIF image no larger than 5 MB")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "You are not allowed to perform this action")
)
