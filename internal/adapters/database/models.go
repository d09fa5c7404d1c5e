package database

import (
	"reelprofile/internal/core/content"
	"reelprofile/internal/core/follower"
	"reelprofile/internal/core/profile"
)

// Models همه مدل‌ها برای AutoMigrate
func Models() []any {
	return []any{
		&profile.Profile{},
		&follower.Following{},
		&follower.Follower{},
		&content.Item{},
		&content.Favorite{},
		&Conversation{},
	}
}
