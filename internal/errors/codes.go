package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to display messages

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // login required
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog imports (CATALOG_) ====================
	CatalogBrandNotFound    = "CATALOG_BRAND_NOT_FOUND"
	CatalogSeasonNotFound   = "CATALOG_SEASON_NOT_FOUND"
	CatalogImportInProgress = "CATALOG_IMPORT_IN_PROGRESS" // another import is running for this brand
	CatalogNoHeaderFound    = "CATALOG_NO_HEADER_FOUND"
	CatalogNoUsableRows     = "CATALOG_NO_USABLE_ROWS"
	CatalogTooManyErrors    = "CATALOG_TOO_MANY_ERRORS"
	CatalogUploadNotFound   = "CATALOG_UPLOAD_NOT_FOUND"

	// ==================== Products (PRODUCT_) ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	ProductInvalidUPC = "PRODUCT_INVALID_UPC"
	ProductNoVariant  = "PRODUCT_NO_MATCHING_VARIANT"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"
	OrderNotDraft       = "ORDER_NOT_DRAFT" // only draft orders can be modified
	OrderEmpty          = "ORDER_EMPTY"
	OrderItemNotFound   = "ORDER_ITEM_NOT_FOUND"
	OrderInvalidShipMonth = "ORDER_INVALID_SHIP_MONTH"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
