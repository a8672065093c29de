package dbmodels

type Notification struct {
	BaseModel
	UserID string `gorm:"type:varchar(36);index:idx_notification_user"`
	Title  string `gorm:"type:varchar(255)"`
	Msg    string
	IsRead bool
}
