package server

import (
	"catalog/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, categoryH *handler.CategoryHandler, productH *handler.ProductHandler) {
	categoryH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
}
