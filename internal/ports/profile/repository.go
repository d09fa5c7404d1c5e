package profile

import (
	"context"

	"reelprofile/internal/core/profile"
)

// ProfileRepository پورت خواندن رکورد هویت
type ProfileRepository interface {
	// FindByHandle حداکثر limit رکورد با handle برابر برمی‌گرداند؛ نبودن رکورد خطا نیست
	FindByHandle(ctx context.Context, handle string, limit int) ([]*profile.Profile, error)
}

// DTOها برای UseCase
type ProfileDTO struct {
	ID          string            `json:"id"`
	Handle      string            `json:"handle"`
	DisplayName string            `json:"displayName"`
	Avatar      string            `json:"avatar,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func ToDTO(p *profile.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          p.ID,
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
		Avatar:      p.Avatar,
		Fields:      p.Fields,
	}
}
