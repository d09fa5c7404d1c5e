package errs

import (
	"errors"
	"fmt"
)

// خطاهای دامنه که از مرز هر کامپوننت عبور می‌کنند
var (
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")

	ErrInvalidEdge    = errors.New("invalid relationship edge")
	ErrTabUnavailable = errors.New("tab not available for this profile")
	ErrNotReady       = errors.New("profile not loaded")
	ErrSelfAction     = errors.New("action not allowed on own profile")
)

// unavailableError هم sentinel و هم خطای اصلی درایور را با errors.Is قابل تشخیص نگه می‌دارد
type unavailableError struct {
	op    string
	cause error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.op, ErrStoreUnavailable, e.cause)
}

func (e *unavailableError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.cause}
}

// Unavailable خطای ذخیره‌سازی یا شبکه را به ErrStoreUnavailable تبدیل می‌کند.
// خطای nil همان nil می‌ماند و خطایی که از قبل در دسته‌بندی دامنه است بدون تغییر برمی‌گردد.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &unavailableError{op: op, cause: err}
}

// IsDomain بررسی می‌کند که خطا از قبل یکی از خطاهای دامنه باشد
func IsDomain(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrStoreUnavailable, ErrUnauthorized,
		ErrInvalidEdge, ErrTabUnavailable, ErrNotReady, ErrSelfAction,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
