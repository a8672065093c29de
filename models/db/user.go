package dbmodels

import (
	"gorm.io/gorm"

	usersapimodels "approval-flow-backend/models/api/users"
)

type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex:idx_user_email"`
	Name         string `gorm:"type:varchar(255)"`
	PasswordHash string `gorm:"type:varchar(128)"`
}

func (u User) ToModel() usersapimodels.UserView {
	return usersapimodels.UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// при удалении пользователя удаляются его заявки со всем содержимым
func (u *User) AfterDelete(tx *gorm.DB) (err error) {
	if u.ID == "" {
		return nil
	}
	var requestIDs []string
	err = tx.Model(&Request{}).
		Where("creator_id = ?", u.ID).
		Pluck("id", &requestIDs).
		Error
	if err != nil {
		return err
	}
	if len(requestIDs) > 0 {
		tx.Where("request_id IN ?", requestIDs).Delete(&WorkflowStage{})
		tx.Where("request_id IN ?", requestIDs).Delete(&RequestComment{})
		tx.Where("request_id IN ?", requestIDs).Delete(&Attachment{})
		tx.Where("creator_id = ?", u.ID).Delete(&Request{})
	}
	tx.Where("user_id = ?", u.ID).Delete(&Notification{})
	return nil
}
