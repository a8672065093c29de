package usersstore

import (
	"strings"

	usersapimodels "approval-flow-backend/models/api/users"
	dbmodels "approval-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.User) (string, error)
	GetByID(userID string) (rec *dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	ExistByEmail(email string) (bool, error)
	Update(userID string, updMap map[string]interface{}) error
	Delete(userID string) error
	Search(filter usersapimodels.UserFilter) (userList []dbmodels.User, err error)
	SearchCount(filter usersapimodels.UserFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	err := i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(userID string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("id = ?", userID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) FindByEmail(email string) (rec *dbmodels.User, err error) {
	err = i.db.Model(dbmodels.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) ExistByEmail(email string) (bool, error) {
	err := i.db.
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&dbmodels.User{}).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

func (i impl) Delete(userID string) error {
	rec := dbmodels.User{
		BaseModel: dbmodels.BaseModel{ID: userID},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) Search(filter usersapimodels.UserFilter) (userList []dbmodels.User, err error) {
	tx := i.db.Model(dbmodels.User{})
	i.applySearch(tx, filter)
	i.setPage(tx, filter)
	err = tx.
		Order("name").
		Find(&userList).
		Error
	if err != nil {
		return nil, err
	}
	return userList, nil
}

func (i impl) SearchCount(filter usersapimodels.UserFilter) (count int64, err error) {
	tx := i.db.Model(dbmodels.User{})
	i.applySearch(tx, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) applySearch(tx *gorm.DB, filter usersapimodels.UserFilter) {
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(name) like ? OR LOWER(email) like ?", like, like)
	}
}

func (i impl) setPage(tx *gorm.DB, filter usersapimodels.UserFilter) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
