package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"

	"gorm.io/gorm"
)

// UserPackageService satın alınan paket haklarının yaşam döngüsü:
// purchase -> activate -> apply/consume -> refund.
type UserPackageService struct {
	userPackageRepo    *repository.UserPackageRepository
	packageRepo        *repository.PackageRepository
	listingRepo        *repository.ListingRepository
	userRepo           *repository.UserRepository
	transactionService *TransactionService
}

func NewUserPackageService(
	userPackageRepo *repository.UserPackageRepository,
	packageRepo *repository.PackageRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
	transactionService *TransactionService,
) *UserPackageService {
	return &UserPackageService{
		userPackageRepo:    userPackageRepo,
		packageRepo:        packageRepo,
		listingRepo:        listingRepo,
		userRepo:           userRepo,
		transactionService: transactionService,
	}
}

// PurchasePackage pending transaction + pending hak oluşturur. Hak, ödeme
// onaylanıp ActivateForTransaction çağrılana kadar kullanılamaz.
func (s *UserPackageService) PurchasePackage(userID, packageID uint, paymentMethod, notes string) (*model.UserPackage, *model.Transaction, error) {
	pkg, err := s.packageRepo.GetByID(packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("package %d: %w", packageID, ErrNotFound)
		}
		return nil, nil, err
	}
	if !pkg.IsActive {
		return nil, nil, fmt.Errorf("package %d: %w", packageID, ErrPackageInactive)
	}

	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, nil, err
	}

	txn, err := s.transactionService.CreateTransaction(CreateTransactionInput{
		UserID:        userID,
		PackageID:     &pkg.ID,
		Type:          model.TransactionTypePackagePurchase,
		Amount:        pkg.Price,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	})
	if err != nil {
		return nil, nil, err
	}

	up := &model.UserPackage{
		UserID:            userID,
		PackageID:         pkg.ID,
		TransactionID:     txn.ID,
		RemainingListings: copyCounter(pkg.ListingCount),
		RemainingPhotos:   copyCounter(pkg.PhotoLimit),
		VideoAvailable:    pkg.AllowVideo,
		IsActive:          false,
		Status:            model.UserPackageStatusPending,
	}

	if pkg.Type == model.PackageTypeBoostListing {
		one := 1
		up.RemainingBoosts = &one
	}

	if pkg.DurationDays != nil {
		expiresAt := time.Now().AddDate(0, 0, *pkg.DurationDays)
		up.ExpiresAt = &expiresAt
	}

	if err := s.userPackageRepo.Create(up); err != nil {
		return nil, nil, err
	}
	return up, txn, nil
}

// ActivateForTransaction ödeme callback akışından çağrılır. Sadece pending
// satırlar aktifleşir; gateway aynı webhook'u tekrar teslim ettiğinde
// ikinci çağrı no-op'tur.
func (s *UserPackageService) ActivateForTransaction(transactionID uint) (int64, error) {
	return s.userPackageRepo.ActivatePending(transactionID, time.Now())
}

// ApplyToListing hakkı pakete göre ilana uygular
func (s *UserPackageService) ApplyToListing(userID, userPackageID, listingID uint) error {
	up, err := s.getOwnedUserPackage(userID, userPackageID)
	if err != nil {
		return err
	}

	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("listing %d: %w", listingID, ErrNotFound)
		}
		return err
	}
	if listing.UserID != userID {
		return fmt.Errorf("listing %d: %w", listingID, ErrUnauthorized)
	}

	now := time.Now()
	if !up.IsUsable(now) {
		if up.ExpiresAt != nil && !up.ExpiresAt.After(now) {
			return fmt.Errorf("user package %d: %w", up.ID, ErrExpiredEntitlement)
		}
		return fmt.Errorf("user package %d is %s: %w", up.ID, up.Status, ErrInvalidState)
	}

	switch up.Package.Type {
	case model.PackageTypePhotoPackage:
		return s.applyPhotoPackage(up, listing)
	case model.PackageTypeVideoUpload:
		return s.applyVideoUpload(up, listing)
	case model.PackageTypeAdditionalListing:
		return s.applyAdditionalListing(up, listing)
	default:
		return fmt.Errorf("package type %s: %w", up.Package.Type, ErrUnsupportedOperation)
	}
}

func (s *UserPackageService) applyPhotoPackage(up *model.UserPackage, listing *model.Listing) error {
	if up.Package.PhotoLimit == nil {
		return fmt.Errorf("photo package %d has no photo limit: %w", up.PackageID, ErrInvalidState)
	}

	rows, err := s.userPackageRepo.DecrementPhotos(up.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user package %d: %w", up.ID, ErrNoRemainingCapacity)
	}

	if *up.Package.PhotoLimit > listing.MaxPhotos {
		if err := s.listingRepo.UpdateFields(listing.ID, map[string]interface{}{
			"max_photos": *up.Package.PhotoLimit,
		}); err != nil {
			// ilan güncellenemediyse düşülen hakkı geri ver
			if _, rbErr := s.userPackageRepo.IncrementPhotos(up.ID); rbErr != nil {
				log.Printf("Could not roll back photo credit on package %d: %v", up.ID, rbErr)
			}
			return err
		}
	}

	return s.markUsedIfExhausted(up.ID)
}

func (s *UserPackageService) applyVideoUpload(up *model.UserPackage, listing *model.Listing) error {
	// tek kullanımlık hak
	rows, err := s.userPackageRepo.ConsumeVideo(up.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user package %d video right already consumed: %w", up.ID, ErrInvalidState)
	}

	return s.listingRepo.UpdateFields(listing.ID, map[string]interface{}{
		"allow_video": true,
	})
}

func (s *UserPackageService) applyAdditionalListing(up *model.UserPackage, listing *model.Listing) error {
	rows, err := s.userPackageRepo.DecrementListings(up.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user package %d: %w", up.ID, ErrNoRemainingCapacity)
	}

	fields := map[string]interface{}{
		"user_package_id": up.ID,
		"is_free_listing": false,
	}
	if up.Package.PhotoLimit != nil && *up.Package.PhotoLimit > listing.MaxPhotos {
		fields["max_photos"] = *up.Package.PhotoLimit
	}
	if up.Package.AllowVideo {
		fields["allow_video"] = true
	}

	if err := s.listingRepo.UpdateFields(listing.ID, fields); err != nil {
		if _, rbErr := s.userPackageRepo.IncrementListings(up.ID); rbErr != nil {
			log.Printf("Could not roll back listing credit on package %d: %v", up.ID, rbErr)
		}
		return err
	}

	return s.markUsedIfExhausted(up.ID)
}

// ConsumeListingSlot ilan oluşturma akışı bir ilan hakkı düşer
func (s *UserPackageService) ConsumeListingSlot(userID, userPackageID uint) error {
	up, err := s.getOwnedUserPackage(userID, userPackageID)
	if err != nil {
		return err
	}

	now := time.Now()
	if !up.IsUsable(now) {
		if up.ExpiresAt != nil && !up.ExpiresAt.After(now) {
			return fmt.Errorf("user package %d: %w", up.ID, ErrExpiredEntitlement)
		}
		return fmt.Errorf("user package %d is %s: %w", up.ID, up.Status, ErrInvalidState)
	}

	rows, err := s.userPackageRepo.DecrementListings(up.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user package %d: %w", up.ID, ErrNoRemainingCapacity)
	}

	return s.markUsedIfExhausted(up.ID)
}

// RefundListingSlot ilan silme akışı hakkı geri verir. Süresi dolmuş
// haklara iade yapılmaz; Used durumdaki hak tekrar Active olur.
func (s *UserPackageService) RefundListingSlot(userID, userPackageID uint) error {
	up, err := s.getOwnedUserPackage(userID, userPackageID)
	if err != nil {
		return err
	}

	if up.ExpiresAt != nil && !up.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("user package %d: %w", up.ID, ErrExpiredEntitlement)
	}

	rows, err := s.userPackageRepo.IncrementListings(up.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user package %d has no listing counter: %w", up.ID, ErrUnsupportedOperation)
	}

	if up.Status == model.UserPackageStatusUsed {
		return s.userPackageRepo.UpdateStatus(up.ID, model.UserPackageStatusActive)
	}
	return nil
}

// CanUserCreateListing ücretsiz kota veya ilan hakkı olan aktif bir paket
func (s *UserPackageService) CanUserCreateListing(userID uint) (bool, string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, "", fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return false, "", err
	}

	freeCount, err := s.listingRepo.CountActiveFreeListings(userID)
	if err != nil {
		return false, "", err
	}
	if freeCount < int64(user.MaxFreeListings) {
		return true, "free listing quota available", nil
	}

	ups, err := s.userPackageRepo.GetActiveByUserID(userID, time.Now())
	if err != nil {
		return false, "", err
	}
	for _, up := range ups {
		if up.Package.Type == model.PackageTypeAdditionalListing &&
			up.RemainingListings != nil && *up.RemainingListings > 0 {
			return true, "has available listing package", nil
		}
	}

	return false, "free listing quota reached and no listing package available", nil
}

// AvailablePhotosForListing ilanın mevcut limiti ile sahibinin
// kullanılabilir fotoğraf paketlerinin en yükseği
func (s *UserPackageService) AvailablePhotosForListing(listingID uint) (int, error) {
	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("listing %d: %w", listingID, ErrNotFound)
		}
		return 0, err
	}

	best := listing.MaxPhotos
	ups, err := s.userPackageRepo.GetActiveByUserID(listing.UserID, time.Now())
	if err != nil {
		return 0, err
	}
	for _, up := range ups {
		if up.Package.Type != model.PackageTypePhotoPackage {
			continue
		}
		if up.RemainingPhotos == nil || *up.RemainingPhotos <= 0 {
			continue
		}
		if up.Package.PhotoLimit != nil && *up.Package.PhotoLimit > best {
			best = *up.Package.PhotoLimit
		}
	}
	return best, nil
}

func (s *UserPackageService) GetUserPackages(userID uint) ([]model.UserPackage, error) {
	return s.userPackageRepo.GetByUserID(userID)
}

func (s *UserPackageService) GetActiveUserPackages(userID uint) ([]model.UserPackage, error) {
	return s.userPackageRepo.GetActiveByUserID(userID, time.Now())
}

func (s *UserPackageService) GetFilteredUserPackages(userID uint, status model.UserPackageStatus, page, limit int) ([]model.UserPackage, int64, error) {
	return s.userPackageRepo.GetFiltered(userID, status, page, limit)
}

func (s *UserPackageService) GetUserPackageDetails(userID, userPackageID uint) (*model.UserPackage, error) {
	return s.getOwnedUserPackage(userID, userPackageID)
}

func (s *UserPackageService) getOwnedUserPackage(userID, userPackageID uint) (*model.UserPackage, error) {
	up, err := s.userPackageRepo.GetWithDetails(userPackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user package %d: %w", userPackageID, ErrNotFound)
		}
		return nil, err
	}
	if up.UserID != userID {
		return nil, fmt.Errorf("user package %d: %w", userPackageID, ErrUnauthorized)
	}
	return up, nil
}

// markUsedIfExhausted paket tipinin tükettiği sayaç sıfırlandıysa hakkı
// Used durumuna geçirir; iade gelirse RefundListingSlot tekrar Active
// yapar. İlan paketindeki fotoğraf limiti tüketilen bir sayaç değil,
// ilana geçen bir özelliktir, o yüzden burada tipine bakılır.
func (s *UserPackageService) markUsedIfExhausted(userPackageID uint) error {
	up, err := s.userPackageRepo.GetWithDetails(userPackageID)
	if err != nil {
		return err
	}

	var counter *int
	switch up.Package.Type {
	case model.PackageTypePhotoPackage:
		counter = up.RemainingPhotos
	case model.PackageTypeAdditionalListing, model.PackageTypeFree:
		counter = up.RemainingListings
	default:
		return nil
	}

	if counter != nil && *counter <= 0 && up.Status == model.UserPackageStatusActive {
		return s.userPackageRepo.UpdateStatus(up.ID, model.UserPackageStatusUsed)
	}
	return nil
}

func copyCounter(src *int) *int {
	if src == nil {
		return nil
	}
	v := *src
	return &v
}
