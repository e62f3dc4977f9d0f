package service

import (
	"errors"
	"fmt"

	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreatePackageInput struct {
	Name         string            `json:"name" validate:"required"`
	Description  string            `json:"description"`
	Type         model.PackageType `json:"type" validate:"required,oneof=additional_listing photo_package video_upload boost_listing free"`
	Price        int64             `json:"price" validate:"gte=0"`
	DurationDays *int              `json:"duration_days" validate:"omitempty,gt=0"`
	ListingCount *int              `json:"listing_count" validate:"omitempty,gt=0"`
	PhotoLimit   *int              `json:"photo_limit" validate:"omitempty,gt=0"`
	AllowVideo   bool              `json:"allow_video"`
	BoostDays    *int              `json:"boost_days" validate:"omitempty,gt=0"`
}

type PackageService struct {
	packageRepo *repository.PackageRepository
}

func NewPackageService(packageRepo *repository.PackageRepository) *PackageService {
	return &PackageService{
		packageRepo: packageRepo,
	}
}

func (s *PackageService) GetAllPackages() ([]model.Package, error) {
	return s.packageRepo.GetAll()
}

func (s *PackageService) GetActivePackages() ([]model.Package, error) {
	return s.packageRepo.GetActive()
}

func (s *PackageService) GetPackagesByType(packageType model.PackageType) ([]model.Package, error) {
	return s.packageRepo.GetByType(packageType)
}

func (s *PackageService) GetPackageByID(id uint) (*model.Package, error) {
	pkg, err := s.packageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("package %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) CreatePackage(input CreatePackageInput) (*model.Package, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	pkg := &model.Package{
		Name:         input.Name,
		Description:  input.Description,
		Type:         input.Type,
		Price:        input.Price,
		DurationDays: input.DurationDays,
		ListingCount: input.ListingCount,
		PhotoLimit:   input.PhotoLimit,
		AllowVideo:   input.AllowVideo,
		BoostDays:    input.BoostDays,
		IsActive:     true,
	}

	if err := s.packageRepo.Create(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) UpdatePackage(id uint, input CreatePackageInput) (*model.Package, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	pkg, err := s.GetPackageByID(id)
	if err != nil {
		return nil, err
	}

	pkg.Name = input.Name
	pkg.Description = input.Description
	pkg.Type = input.Type
	pkg.Price = input.Price
	pkg.DurationDays = input.DurationDays
	pkg.ListingCount = input.ListingCount
	pkg.PhotoLimit = input.PhotoLimit
	pkg.AllowVideo = input.AllowVideo
	pkg.BoostDays = input.BoostDays

	if err := s.packageRepo.Update(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// DeactivatePackage soft delete: mevcut kullanıcı hakları paket
// şablonuna referans vermeye devam eder, kayıt silinmez
func (s *PackageService) DeactivatePackage(id uint) error {
	if err := s.packageRepo.Deactivate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("package %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
