package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"
	"estateport_backend/pkg/email"

	"gorm.io/gorm"
)

const DefaultBoostDays = 7

type BoostService struct {
	boostRepo       *repository.ListingBoostRepository
	listingRepo     *repository.ListingRepository
	userPackageRepo *repository.UserPackageRepository
	userRepo        *repository.UserRepository
}

func NewBoostService(
	boostRepo *repository.ListingBoostRepository,
	listingRepo *repository.ListingRepository,
	userPackageRepo *repository.UserPackageRepository,
	userRepo *repository.UserRepository,
) *BoostService {
	return &BoostService{
		boostRepo:       boostRepo,
		listingRepo:     listingRepo,
		userPackageRepo: userPackageRepo,
		userRepo:        userRepo,
	}
}

// BoostListing yayındaki bir ilanı öne çıkarır. userPackageID verilirse
// boost kredisi o haktan düşülür; verilmezse ödemesi ayrıca alınmış demektir.
func (s *BoostService) BoostListing(userID, listingID uint, userPackageID *uint, boostDays int) (*model.ListingBoost, error) {
	if boostDays <= 0 {
		boostDays = DefaultBoostDays
	}

	listing, err := s.listingRepo.GetByID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing %d: %w", listingID, ErrNotFound)
		}
		return nil, err
	}
	if listing.UserID != userID {
		return nil, fmt.Errorf("listing %d: %w", listingID, ErrUnauthorized)
	}
	if listing.Status != model.ListingStatusPublished {
		return nil, fmt.Errorf("listing %d is not published: %w", listingID, ErrInvalidState)
	}

	hasBoost, err := s.boostRepo.HasActiveBoost(listingID)
	if err != nil {
		return nil, err
	}
	if hasBoost {
		return nil, fmt.Errorf("listing %d is already boosted: %w", listingID, ErrInvalidState)
	}

	if userPackageID != nil {
		up, err := s.userPackageRepo.GetByID(*userPackageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("user package %d: %w", *userPackageID, ErrNotFound)
			}
			return nil, err
		}
		if up.UserID != userID {
			return nil, fmt.Errorf("user package %d: %w", *userPackageID, ErrUnauthorized)
		}

		// ödemesi onaylanmamış veya süresi dolmuş haktan kredi harcanamaz
		now := time.Now()
		if !up.IsUsable(now) {
			if up.ExpiresAt != nil && !up.ExpiresAt.After(now) {
				return nil, fmt.Errorf("user package %d: %w", *userPackageID, ErrExpiredEntitlement)
			}
			return nil, fmt.Errorf("user package %d is %s: %w", *userPackageID, up.Status, ErrInvalidState)
		}

		rows, err := s.userPackageRepo.DecrementBoosts(*userPackageID)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, fmt.Errorf("user package %d has no boost credits: %w", *userPackageID, ErrNoRemainingCapacity)
		}
	}

	now := time.Now()
	boost := &model.ListingBoost{
		ListingID:     listingID,
		UserID:        userID,
		UserPackageID: userPackageID,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, boostDays),
		BoostDays:     boostDays,
		IsActive:      true,
		Status:        model.BoostStatusActive,
	}

	if err := s.boostRepo.Create(boost); err != nil {
		if userPackageID != nil {
			// kredi düşüldü ama boost yazılamadı; geri ver
			if _, rbErr := s.userPackageRepo.IncrementBoosts(*userPackageID); rbErr != nil {
				log.Printf("Could not roll back boost credit on package %d: %v", *userPackageID, rbErr)
			}
		}
		return nil, err
	}

	if err := s.listingRepo.UpdateFields(listingID, map[string]interface{}{
		"is_boosted": true,
	}); err != nil {
		return nil, err
	}

	s.notifyBoostActivated(userID, listing.Title, boost)

	return boost, nil
}

// e-posta hatası boost akışını durdurmaz
func (s *BoostService) notifyBoostActivated(userID uint, listingTitle string, boost *model.ListingBoost) {
	if email.GlobalEmailService == nil {
		return
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("Could not load user %d for boost email: %v", userID, err)
		return
	}

	if err := email.GlobalEmailService.SendBoostActivatedEmail(
		user.Email, user.GetFullName(), listingTitle, boost.BoostDays, boost.EndDate,
	); err != nil {
		log.Printf("Could not send boost email to %s: %v", user.Email, err)
	}
}

// ExpireOldBoosts süresi geçen boost'ları kapatır. İlanın is_boosted
// bayrağına dokunmaz; mevcut davranış bilinçli olarak korunuyor
// (bkz. DESIGN.md).
func (s *BoostService) ExpireOldBoosts() (int64, error) {
	return s.boostRepo.ExpireOld(time.Now())
}

func (s *BoostService) GetActiveBoosts() ([]model.ListingBoost, error) {
	return s.boostRepo.GetActive()
}

func (s *BoostService) GetActiveBoostForListing(listingID uint) (*model.ListingBoost, error) {
	boost, err := s.boostRepo.GetActiveByListingID(listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing %d has no active boost: %w", listingID, ErrNotFound)
		}
		return nil, err
	}
	return boost, nil
}

func (s *BoostService) HasActiveBoost(listingID uint) (bool, error) {
	return s.boostRepo.HasActiveBoost(listingID)
}
