package requestapimodels

import (
	"time"

	dbmodels "approval-flow-backend/models/db"
)

type AttachmentView struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	AuthorID    string    `json:"author_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func AttachmentConvert(rec dbmodels.Attachment) AttachmentView {
	return AttachmentView{
		ID:          rec.ID,
		RequestID:   rec.RequestID,
		AuthorID:    rec.AuthorID,
		FileName:    rec.FileName,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		CreatedAt:   rec.CreatedAt,
	}
}
