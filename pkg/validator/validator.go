// Package validator registers the custom request validations used by the
// binding tags on the API request types.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// care levels follow the German Pflegegrad scale, 1 through 5
var careLevels = map[string]bool{
	"1": true, "2": true, "3": true, "4": true, "5": true,
}

func validCareLevel(fl validator.FieldLevel) bool {
	return careLevels[fl.Field().String()]
}

// Register hooks the custom validations into gin's binding engine. Call once
// at startup before the router handles requests.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("carelevel", validCareLevel)
}
