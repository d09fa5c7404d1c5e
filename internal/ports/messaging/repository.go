package messaging

import "context"

// ConversationRepository همکار پیام‌رسانی؛ برای هر جفت کاربر یک گفتگو
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, viewerID, subjectID string) (string, error)
}
