package service

import (
	"fmt"
	"testing"
	"time"

	"estateport_backend/internal/model"
	"estateport_backend/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db *gorm.DB

	packageRepo     *repository.PackageRepository
	transactionRepo *repository.TransactionRepository
	userPackageRepo *repository.UserPackageRepository
	boostRepo       *repository.ListingBoostRepository
	listingRepo     *repository.ListingRepository
	userRepo        *repository.UserRepository

	packages     *PackageService
	transactions *TransactionService
	userPackages *UserPackageService
	boosts       *BoostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Package{},
		&model.Transaction{},
		&model.UserPackage{},
		&model.Listing{},
		&model.ListingBoost{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &testEnv{
		db:              db,
		packageRepo:     repository.NewPackageRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		userPackageRepo: repository.NewUserPackageRepository(db),
		boostRepo:       repository.NewListingBoostRepository(db),
		listingRepo:     repository.NewListingRepository(db),
		userRepo:        repository.NewUserRepository(db),
	}

	env.packages = NewPackageService(env.packageRepo)
	env.transactions = NewTransactionService(env.transactionRepo)
	env.userPackages = NewUserPackageService(env.userPackageRepo, env.packageRepo, env.listingRepo, env.userRepo, env.transactions)
	env.boosts = NewBoostService(env.boostRepo, env.listingRepo, env.userPackageRepo, env.userRepo)

	return env
}

func (e *testEnv) createUser(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Email:           fmt.Sprintf("user%d@example.com", time.Now().UnixNano()),
		FirstName:       "Linh",
		LastName:        "Nguyen",
		MaxFreeListings: 1,
	}
	if err := e.userRepo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) createListing(t *testing.T, userID uint, status model.ListingStatus) *model.Listing {
	t.Helper()
	listing := &model.Listing{
		Title:         "Riverside apartment",
		UserID:        userID,
		Status:        status,
		MaxPhotos:     5,
		IsFreeListing: true,
	}
	if err := e.listingRepo.Create(listing); err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

func (e *testEnv) createPackage(t *testing.T, pkg model.Package) *model.Package {
	t.Helper()
	pkg.IsActive = true
	if err := e.packageRepo.Create(&pkg); err != nil {
		t.Fatalf("create package: %v", err)
	}
	return &pkg
}

// purchaseAndActivate satın alma + ödeme onayı kısayolu
func (e *testEnv) purchaseAndActivate(t *testing.T, userID, packageID uint) (*model.UserPackage, *model.Transaction) {
	t.Helper()
	up, txn, err := e.userPackages.PurchasePackage(userID, packageID, "payos", "")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if err := e.transactions.Complete(txn.ID, "GW-REF", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := e.userPackages.ActivateForTransaction(txn.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	fresh, err := e.userPackageRepo.GetByID(up.ID)
	if err != nil {
		t.Fatalf("reload user package: %v", err)
	}
	return fresh, txn
}

func (e *testEnv) reloadUserPackage(t *testing.T, id uint) *model.UserPackage {
	t.Helper()
	up, err := e.userPackageRepo.GetByID(id)
	if err != nil {
		t.Fatalf("reload user package: %v", err)
	}
	return up
}

func (e *testEnv) reloadListing(t *testing.T, id uint) *model.Listing {
	t.Helper()
	listing, err := e.listingRepo.GetByID(id)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	return listing
}

func intPtr(v int) *int { return &v }
