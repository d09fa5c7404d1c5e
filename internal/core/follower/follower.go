package follower

import "time"

// هر یال follower -> followee در دو ایندکس آینه‌ای ذخیره می‌شود:
// Following (خروجی، متعلق به follower) و Follower (ورودی، متعلق به followee).
// نوشتن این دو ردیف اتمیک فرض نمی‌شود؛ ایندکس خروجی مرجع است.

// Following ایندکس خروجی: کاربرانی که FollowerID دنبال می‌کند
type Following struct {
	FollowerID string    `gorm:"primaryKey;type:char(36)"`
	FolloweeID string    `gorm:"primaryKey;type:char(36);index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Following) TableName() string { return "user_following" }

// Follower ایندکس ورودی: کاربرانی که FolloweeID را دنبال می‌کنند
type Follower struct {
	FolloweeID string    `gorm:"primaryKey;type:char(36)"`
	FollowerID string    `gorm:"primaryKey;type:char(36);index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Follower) TableName() string { return "user_followers" }

// Edge یال جهت‌دار follower -> followee
type Edge struct {
	FollowerID string
	FolloweeID string
}
