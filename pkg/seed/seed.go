package seed

import (
	"log"

	"estateport_backend/internal/model"

	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func SeedPackages(db *gorm.DB) {
	packages := []model.Package{
		{
			Name:        "Free Listing",
			Description: "One free listing with basic photo allowance",
			Type:        model.PackageTypeFree,
			Price:       0,
			PhotoLimit:  intPtr(5),
		},
		{
			Name:         "Photo Pack 10",
			Description:  "Raise a listing's photo limit to 10",
			Type:         model.PackageTypePhotoPackage,
			Price:        50000,
			PhotoLimit:   intPtr(10),
			DurationDays: intPtr(90),
		},
		{
			Name:         "Photo Pack 20",
			Description:  "Raise a listing's photo limit to 20",
			Type:         model.PackageTypePhotoPackage,
			Price:        90000,
			PhotoLimit:   intPtr(20),
			DurationDays: intPtr(90),
		},
		{
			Name:         "Video Unlock",
			Description:  "Enable video upload on one listing",
			Type:         model.PackageTypeVideoUpload,
			Price:        70000,
			AllowVideo:   true,
			DurationDays: intPtr(90),
		},
		{
			Name:         "Extra Listings 5",
			Description:  "Five additional listings with 10 photos each",
			Type:         model.PackageTypeAdditionalListing,
			Price:        200000,
			ListingCount: intPtr(5),
			PhotoLimit:   intPtr(10),
			DurationDays: intPtr(180),
		},
		{
			Name:        "Boost 7 Days",
			Description: "Promote a listing to the top for a week",
			Type:        model.PackageTypeBoostListing,
			Price:       100000,
			BoostDays:   intPtr(7),
		},
	}

	for _, pkg := range packages {
		pkg.IsActive = true
		result := db.FirstOrCreate(&pkg, model.Package{Name: pkg.Name})
		if result.Error != nil {
			log.Printf("Error creating package %s: %v", pkg.Name, result.Error)
		}
	}

	log.Println("Packages seeded successfully!")
}
