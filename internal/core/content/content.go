package content

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// Item یک پست (ریلز/تصویر) که دقیقا یک مالک دارد
type Item struct {
	ID           string     `gorm:"primary_key;type:char(36)"`
	OwnerID      string     `gorm:"type:char(36);not null;index:idx_owner_created,priority:1"`
	Kind         Kind       `gorm:"type:varchar(16);not null;default:'video'"`
	MediaURL     string     `gorm:"type:text"`
	ThumbnailURL string     `gorm:"type:text"`
	Caption      string     `gorm:"type:text"`
	CreatedAt    *time.Time `gorm:"column:created_at;autoCreateTime:false;index:idx_owner_created,priority:2"` // می‌تواند خالی باشد

	FavoritedBy []string  `gorm:"-"`
	SortKey     time.Time `gorm:"-"` // CreatedAt یا "اکنون" اگر CreatedAt خالی باشد
}

func (Item) TableName() string { return "content_items" }

// BeforeCreate شناسه را تولید می‌کند. CreatedAt عمدا خودکار پر نمی‌شود.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.Must(uuid.NewV4()).String()
	}
	return nil
}

// FavoritedByViewer آیا viewerID این آیتم را به علاقه‌مندی‌ها اضافه کرده است
func (i *Item) FavoritedByViewer(viewerID string) bool {
	for _, id := range i.FavoritedBy {
		if id == viewerID {
			return true
		}
	}
	return false
}

// Clone کپی مستقل از آیتم
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.CreatedAt != nil {
		t := *i.CreatedAt
		c.CreatedAt = &t
	}
	if i.FavoritedBy != nil {
		c.FavoritedBy = append([]string(nil), i.FavoritedBy...)
	}
	return &c
}

// Favorite ردیف علاقه‌مندی: ViewerID آیتم ItemID را پسندیده است
type Favorite struct {
	ItemID    string    `gorm:"primaryKey;type:char(36)"`
	ViewerID  string    `gorm:"primaryKey;type:char(36);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string { return "content_favorites" }
