package friendship

import "context"

// Derive دوستی متقابل: فقط وقتی هر دو جهت دنبال کردن وجود داشته باشد
func Derive(aFollowsB, bFollowsA bool) bool {
	return aFollowsB && bFollowsA
}

// Resolve جهت دوم (b -> a) را فقط وقتی بررسی می‌کند که a واقعا b را دنبال کند.
// اگر aFollowsB=false باشد check اصلا صدا زده نمی‌شود.
func Resolve(ctx context.Context, aFollowsB bool, check func(ctx context.Context) (bool, error)) (bool, error) {
	if !aFollowsB {
		return false, nil
	}
	bFollowsA, err := check(ctx)
	if err != nil {
		return false, err
	}
	return Derive(aFollowsB, bFollowsA), nil
}
