package repository

import (
	"estateport_backend/internal/model"

	"gorm.io/gorm"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{
		db: db,
	}
}

func (r *PackageRepository) Create(pkg *model.Package) error {
	return r.db.Create(pkg).Error
}

func (r *PackageRepository) Update(pkg *model.Package) error {
	return r.db.Save(pkg).Error
}

func (r *PackageRepository) GetByID(id uint) (*model.Package, error) {
	var pkg model.Package
	err := r.db.First(&pkg, id).Error
	return &pkg, err
}

func (r *PackageRepository) GetAll() ([]model.Package, error) {
	var packages []model.Package
	err := r.db.Order("price ASC").Find(&packages).Error
	return packages, err
}

func (r *PackageRepository) GetActive() ([]model.Package, error) {
	var packages []model.Package
	err := r.db.Where("is_active = ?", true).Order("price ASC").Find(&packages).Error
	return packages, err
}

func (r *PackageRepository) GetByType(packageType model.PackageType) ([]model.Package, error) {
	var packages []model.Package
	err := r.db.Where("type = ? AND is_active = ?", packageType, true).
		Order("price ASC").
		Find(&packages).Error
	return packages, err
}

// Deactivate soft delete: paket bir daha listelenmez ama satın alınmış
// haklar için referans olarak kalır
func (r *PackageRepository) Deactivate(id uint) error {
	result := r.db.Model(&model.Package{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
