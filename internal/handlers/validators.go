package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// registerCurrencyValidator installs the "supportedcurrency" binding tag so
// request DTOs can reject currency codes outside the configured set before
// they reach a service. An empty supported set disables the check, which
// keeps the tag inert when configuration is intentionally minimal.
func registerCurrencyValidator(supportedCurrencies []string) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("supportedcurrency", func(fl validator.FieldLevel) bool {
		if len(supportedCurrencies) == 0 {
			return true
		}
		return lo.Contains(supportedCurrencies, fl.Field().String())
	})
}
