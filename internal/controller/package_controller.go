package controller

import (
	"estateport_backend/internal/model"
	"estateport_backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PackageController struct {
	packageService *service.PackageService
}

func NewPackageController(packageService *service.PackageService) *PackageController {
	return &PackageController{
		packageService: packageService,
	}
}

// ListPackages satın alınabilir aktif paketler
func (ctl *PackageController) ListPackages(c *fiber.Ctx) error {
	packages, err := ctl.packageService.GetActivePackages()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse("could not fetch packages"))
	}
	return c.JSON(model.SuccessResponse(packages, ""))
}
