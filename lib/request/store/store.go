package requeststore

import (
	requestapimodels "approval-flow-backend/models/api/request"
	dbmodels "approval-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Request) (id string, err error)
	GetByID(id string) (rec *dbmodels.Request, err error)
	Update(id string, updMap map[string]interface{}) error
	UpdateWithStatus(id string, allowed []interface{}, updMap map[string]interface{}) (updated bool, err error)
	Delete(id string) error
	List(userID string, filter requestapimodels.RequestFilter) (list []dbmodels.Request, err error)
	ListCount(userID string, filter requestapimodels.RequestFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Request) (id string, err error) {
	err = i.db.Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (rec *dbmodels.Request, err error) {
	err = i.db.Model(dbmodels.Request{}).
		Where("id = ?", id).
		Preload("Creator").
		Preload("Stages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index")
		}).
		Preload("Stages.AssignedUser").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Updates(updMap)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("запись не найдена")
	}
	return nil
}

// UpdateWithStatus обновляет заявку только если её текущий статус входит в allowed.
// Возвращает false, если статус уже изменился конкурентно.
func (i impl) UpdateWithStatus(id string, allowed []interface{}, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("status IN ?", allowed).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Request{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.
		Delete(&rec).
		Error
}

func (i impl) List(userID string, filter requestapimodels.RequestFilter) (list []dbmodels.Request, err error) {
	tx := i.db.Model(dbmodels.Request{})
	i.applyFilter(tx, userID, filter)
	i.setPage(tx, filter)
	err = tx.
		Preload("Creator").
		Preload("Stages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index")
		}).
		Preload("Stages.AssignedUser").
		Order("created_at DESC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(userID string, filter requestapimodels.RequestFilter) (count int64, err error) {
	tx := i.db.Model(dbmodels.Request{})
	i.applyFilter(tx, userID, filter)
	err = tx.Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) applyFilter(tx *gorm.DB, userID string, filter requestapimodels.RequestFilter) {
	if filter.IncludeParticipating {
		tx.Where("creator_id = ? OR id in (select request_id from workflow_stages where assigned_user_id = ?)", userID, userID)
	} else {
		tx.Where("creator_id = ?", userID)
	}
	if filter.Status != nil && *filter.Status != "" {
		tx.Where("status = ?", *filter.Status)
	}
}

func (i impl) setPage(tx *gorm.DB, filter requestapimodels.RequestFilter) {
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx.Limit(limit).Offset(offset)
}
