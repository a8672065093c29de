package notificationstore

import (
	notificationapimodels "approval-flow-backend/models/api/notification"
	dbmodels "approval-flow-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Notification) (id string, err error)
	List(userID string, filter notificationapimodels.NotificationFilter) (list []dbmodels.Notification, err error)
	ListCount(userID string, filter notificationapimodels.NotificationFilter) (count int64, err error)
	CountUnread(userID string) (count int64, err error)
	MarkRead(userID, id string) (updated bool, err error)
	MarkAllRead(userID string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Notification) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(userID string, filter notificationapimodels.NotificationFilter) (list []dbmodels.Notification, err error) {
	tx := i.db.Model(dbmodels.Notification{})
	i.applyFilter(tx, userID, filter)
	i.setPage(tx, filter)
	err = tx.
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(userID string, filter notificationapimodels.NotificationFilter) (count int64, err error) {
	tx := i.db.Model(dbmodels.Notification{})
	i.applyFilter(tx, userID, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) CountUnread(userID string) (count int64, err error) {
	err = i.db.Model(dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) MarkRead(userID, id string) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Notification{}).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_read": true})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) MarkAllRead(userID string) error {
	return i.db.
		Model(&dbmodels.Notification{}).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{"is_read": true}).
		Error
}

func (i impl) applyFilter(tx *gorm.DB, userID string, filter notificationapimodels.NotificationFilter) {
	tx.Where("user_id = ?", userID)
	if filter.OnlyUnread {
		tx.Where("is_read = ?", false)
	}
}

func (i impl) setPage(tx *gorm.DB, filter notificationapimodels.NotificationFilter) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
