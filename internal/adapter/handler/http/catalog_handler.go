package http

import (
	"github.com/labstack/echo/v4"

	"github.com/fitrahmoef/Saintara-Mobile/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(packages *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: packages}
}

// ListPackages handles GET /packages
func (h *CatalogHandler) ListPackages(c echo.Context) error {
	return ok(c, echo.Map{"packages": h.catalog.List()})
}
