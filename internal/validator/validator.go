// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fitr/internal/aggregation"
	"fitr/internal/models"
)

var yearMonthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var oauthProviderRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("named_range", validateNamedRange)
		_ = v.RegisterValidation("year_month", validateYearMonth)
		_ = v.RegisterValidation("oauth_provider", validateOAuthProvider)
	}
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return models.BudgetPeriod(fl.Field().String()).Valid()
}

func validateNamedRange(fl validator.FieldLevel) bool {
	_, ok := aggregation.NamedRange(fl.Field().String()).Days()
	return ok
}

func validateYearMonth(fl validator.FieldLevel) bool {
	return yearMonthRegex.MatchString(fl.Field().String())
}

func validateOAuthProvider(fl validator.FieldLevel) bool {
	return oauthProviderRegex.MatchString(fl.Field().String())
}
