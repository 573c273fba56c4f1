package server

import (
	"catalog/internal/handler"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// 構造体タグのバリデーションをechoに挿す
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// New はミドルウェアとルートを組み上げたechoを返す。
func New(feURL string, categoryH *handler.CategoryHandler, productH *handler.ProductHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if feURL != "" {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: []string{feURL},
		}))
	}

	RegisterRoutes(e, categoryH, productH)
	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
