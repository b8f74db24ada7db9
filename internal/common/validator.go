package common

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GenericEchoValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call ctx.Validate on bound requests.
type GenericEchoValidator struct {
	validator *validator.Validate
}

func NewGenericEchoValidator() *GenericEchoValidator {
	return &GenericEchoValidator{validator: validator.New()}
}

func (gv *GenericEchoValidator) Validate(i interface{}) error {
	if err := gv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("received invalid request body: %v", err))
	}
	return nil
}
