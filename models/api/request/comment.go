package requestapimodels

import (
	"strings"
	"time"

	"approval-flow-backend/lib/utils/errs"
	dbmodels "approval-flow-backend/models/db"
)

type CommentData struct {
	Comment string `json:"comment"`
}

func (r CommentData) Validate() error {
	if strings.TrimSpace(r.Comment) == "" {
		return errs.New(errs.KindValidation, "комментарий не должен быть пустым")
	}
	return nil
}

type CommentView struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

func CommentConvert(rec dbmodels.RequestComment) CommentView {
	view := CommentView{
		ID:        rec.ID,
		RequestID: rec.RequestID,
		AuthorID:  rec.AuthorID,
		Comment:   rec.Comment,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Author != nil {
		view.AuthorName = rec.Author.Name
		view.AuthorEmail = rec.Author.Email
	}
	return view
}
