package service

import "errors"

// İş kuralı ihlalleri bu sentinel hatalarla döner; çağıran taraf
// errors.Is ile tür ayrımı yapar. Beklenmeyen altyapı hataları
// (DB, gateway SDK) sarılıp olduğu gibi yukarı taşınır.
var (
	ErrNotFound             = errors.New("record not found")
	ErrUnauthorized         = errors.New("not authorized for this resource")
	ErrInvalidState         = errors.New("operation not allowed in current state")
	ErrPackageInactive      = errors.New("package is no longer available")
	ErrNoRemainingCapacity  = errors.New("no remaining capacity on this package")
	ErrUnsupportedOperation = errors.New("package type does not support this operation")
	ErrGateway              = errors.New("payment gateway error")
	ErrExpiredEntitlement   = errors.New("package has expired")
)
