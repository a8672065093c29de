package notificationapimodels

import (
	"time"

	apimodels "approval-flow-backend/models/api"
	dbmodels "approval-flow-backend/models/db"
)

type NotificationView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Msg       string    `json:"msg"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func NotificationConvert(rec dbmodels.Notification) NotificationView {
	return NotificationView{
		ID:        rec.ID,
		Title:     rec.Title,
		Msg:       rec.Msg,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
}

type NotificationFilter struct {
	OnlyUnread bool `json:"only_unread"`
	apimodels.Pagination
}
