package dbmodels

type Attachment struct {
	BaseModel
	RequestID   string `gorm:"type:varchar(36);index:idx_attachment_request"`
	AuthorID    string `gorm:"type:varchar(36)"`
	FileName    string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(255)"`
	Size        int64
	ObjectKey   string `gorm:"type:varchar(100)"` // ключ объекта в S3
}
