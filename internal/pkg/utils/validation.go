package utils

import (
	"reflect"
	"regexp"

	"dococlock-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate *validator.Validate

	reSpecialChar  = regexp.MustCompile(constvars.RegexContainAtLeastOneSpecialChar)
	reUppercase    = regexp.MustCompile(constvars.RegexContainAtLeastOneUppercase)
	reLowercase    = regexp.MustCompile(constvars.RegexContainAtLeastOneLowercase)
	reDigit        = regexp.MustCompile(constvars.RegexContainAtLeastOneDigit)
	reZambianPhone = regexp.MustCompile(constvars.RegexZambiaPhoneNumber)
)

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(decimalValuer, decimal.Decimal{})
	validate.RegisterValidation("password", validatePassword)
	validate.RegisterValidation("zm_phone", validateZambianPhone)
	validate.RegisterValidation("payment_method", validatePaymentMethod)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// decimalValuer lets numeric tags such as gt=0 apply to decimal.Decimal fields.
func decimalValuer(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	return len(password) >= 8 &&
		reSpecialChar.MatchString(password) &&
		reUppercase.MatchString(password) &&
		reLowercase.MatchString(password) &&
		reDigit.MatchString(password)
}

func validateZambianPhone(fl validator.FieldLevel) bool {
	phone := phoneSeparator.Replace(fl.Field().String())
	return reZambianPhone.MatchString(phone)
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "card", "mobile_money", "paypal", "bank_transfer":
		return true
	default:
		return false
	}
}
