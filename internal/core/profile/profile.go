package profile

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Profile رکورد هویت کاربر؛ هنگام ساخت حساب (بیرون از این سرویس) ایجاد می‌شود و اینجا فقط خوانده می‌شود
type Profile struct {
	ID          string            `gorm:"primary_key;type:char(36)"`
	Handle      string            `gorm:"type:varchar(64);uniqueIndex;not null"`
	DisplayName string            `gorm:"type:varchar(128)"`
	Avatar      string            `gorm:"type:mediumtext"` // base64 یا URL تصویر
	Fields      map[string]string `gorm:"type:text;serializer:json"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

// BeforeCreate شناسه را سمت برنامه تولید می‌کند (default:uuid() فقط در MySQL کار می‌کند)
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV4()).String()
	}
	return nil
}

// Clone کپی مستقل برای view model
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Fields != nil {
		c.Fields = make(map[string]string, len(p.Fields))
		for k, v := range p.Fields {
			c.Fields[k] = v
		}
	}
	return &c
}
