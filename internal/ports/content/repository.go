package content

import (
	"context"
	"time"

	"reelprofile/internal/core/content"
)

// ContentRepository پورت خواندن پست‌ها و علاقه‌مندی‌ها
type ContentRepository interface {
	// ListByOwner پست‌های مالک، جدیدترین اول؛ آیتم‌های بدون زمان اول می‌آیند
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*content.Item, error)
	// ListFavoritedBy همه آیتم‌هایی که viewerID پسندیده (بدون محدودیت)
	ListFavoritedBy(ctx context.Context, viewerID string) ([]*content.Item, error)
}

// DTOها برای UseCase
type ItemDTO struct {
	ID           string `json:"id"`
	OwnerID      string `json:"ownerId"`
	Kind         string `json:"kind"`
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Timestamp    int64  `json:"timestamp"` // میلی‌ثانیه
}

func ToDTOs(items []*content.Item) []*ItemDTO {
	dtos := make([]*ItemDTO, 0, len(items))
	for _, it := range items {
		ts := it.SortKey
		if ts.IsZero() && it.CreatedAt != nil {
			ts = *it.CreatedAt
		}
		dtos = append(dtos, &ItemDTO{
			ID:           it.ID,
			OwnerID:      it.OwnerID,
			Kind:         string(it.Kind),
			MediaURL:     it.MediaURL,
			ThumbnailURL: it.ThumbnailURL,
			Caption:      it.Caption,
			Timestamp:    ts.UnixNano() / int64(time.Millisecond),
		})
	}
	return dtos
}
