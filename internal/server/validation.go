package server

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var voucherCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,50}$`)

// registerValidations installs custom binding validators on gin's
// shared validator engine.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("vouchercode", func(fl validator.FieldLevel) bool {
			return voucherCodePattern.MatchString(fl.Field().String())
		})
	}
}
