package validators

import (
	"reflect"
	"strings"
	"unicode"

	"clinicdesk/cmd/internal/domain/entity"
	"clinicdesk/cmd/internal/scheduling"
	"github.com/go-playground/validator/v10"
)

// New returns a validator reporting fields by their JSON names, with every
// custom tag used by the request types registered.
func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("hasupper", HasUpper)
	_ = validate.RegisterValidation("haslower", HasLower)
	_ = validate.RegisterValidation("hasdigit", HasDigit)
	_ = validate.RegisterValidation("hasspecial", HasSpecial)
	_ = validate.RegisterValidation("nodupes", NoDupes)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
	_ = validate.RegisterValidation("isodate", IsDate)
	_ = validate.RegisterValidation("clock", IsClock)
	_ = validate.RegisterValidation("apptstatus", IsAppointmentStatus)
	_ = validate.RegisterValidation("rxstatus", IsPrescriptionStatus)
	return validate
}

func HasUpper(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsUpper) >= 0
}

func HasLower(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsLower) >= 0
}

func HasDigit(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
}

func HasSpecial(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
}

// NoDupes fails on a string slice holding the same value twice.
func NoDupes(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	seen := make(map[string]struct{}, field.Len())
	for i := 0; i < field.Len(); i++ {
		v := field.Index(i).String()
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

func IsDate(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseDate(fl.Field().String())
	return err == nil
}

func IsClock(fl validator.FieldLevel) bool {
	_, err := scheduling.ParseClock(fl.Field().String())
	return err == nil
}

func IsAppointmentStatus(fl validator.FieldLevel) bool {
	return entity.AppointmentStatus(fl.Field().String()).IsValid()
}

func IsPrescriptionStatus(fl validator.FieldLevel) bool {
	return entity.PrescriptionStatus(fl.Field().String()).IsValid()
}
