package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tashivar/backoffice/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		registerCustom(validate)

		validate.RegisterTagNameFunc(jsonTagName)

		// Set custom validators on Gin's default validator too
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
			v.RegisterTagNameFunc(jsonTagName)
		}
	})

	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("order_id", validateOrderID)
	_ = v.RegisterValidation("challan_number", validateChallanNumber)
	_ = v.RegisterValidation("sku", validateSKU)
	_ = v.RegisterValidation("product_type", validateProductType)
	_ = v.RegisterValidation("delivery_method", validateDeliveryMethod)
	_ = v.RegisterValidation("txn_type", validateTransactionType)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("gstin", validateGSTIN)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return fld.Name
	}
	return name
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		return InitValidator()
	}
	return validate
}

// Custom validators

var (
	orderIDRegex       = regexp.MustCompile(`^ORD-\d{4}-\d{3,}$`)
	challanNumberRegex = regexp.MustCompile(`^CH-\d{4}-\d{3,}$`)
	skuRegex           = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,49}$`)
	phoneRegex         = regexp.MustCompile(`^\+?[0-9][0-9\s-]{7,14}$`)
	gstinRegex         = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z]{1}[A-Z\d]{1}[Z]{1}[A-Z\d]{1}$`)
)

func validateOrderID(fl validator.FieldLevel) bool {
	return orderIDRegex.MatchString(fl.Field().String())
}

func validateChallanNumber(fl validator.FieldLevel) bool {
	return challanNumberRegex.MatchString(fl.Field().String())
}

func validateSKU(fl validator.FieldLevel) bool {
	return skuRegex.MatchString(fl.Field().String())
}

func validateProductType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "readymade", "fabric":
		return true
	default:
		return false
	}
}

func validateDeliveryMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "courier", "vehicle":
		return true
	default:
		return false
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "purchase", "sale", "adjustment", "return", "transfer", "damaged":
		return true
	default:
		return false
	}
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateGSTIN(fl validator.FieldLevel) bool {
	return gstinRegex.MatchString(fl.Field().String())
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "email":
		return "must be a valid email address"
	case "order_id":
		return "must be a valid order ID (format: ORD-2025-001)"
	case "challan_number":
		return "must be a valid challan number (format: CH-2025-001)"
	case "sku":
		return "must be a valid SKU (uppercase alphanumeric with dashes)"
	case "product_type":
		return "must be one of: readymade, fabric"
	case "delivery_method":
		return "must be one of: courier, vehicle"
	case "txn_type":
		return "must be one of: purchase, sale, adjustment, return, transfer, damaged"
	case "phone":
		return "must be a valid phone number"
	case "gstin":
		return "must be a valid GSTIN"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(obj interface{}) *errors.AppError {
	v := GetValidator()
	if err := v.Struct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("validation failed: " + err.Error())
	}
	return nil
}
