package stagestore

import (
	"approval-flow-backend/models"
	dbmodels "approval-flow-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	CreateBatch(list []dbmodels.WorkflowStage) error
	GetByID(id string) (rec *dbmodels.WorkflowStage, err error)
	ListByRequest(requestID string) (list []dbmodels.WorkflowStage, err error)
	DeleteByRequest(requestID string) error
	FirstPending(requestID string) (rec *dbmodels.WorkflowStage, err error)
	NextPending(requestID string, afterOrder int) (rec *dbmodels.WorkflowStage, err error)
	SetInProgress(id string) error
	CompleteStage(id string, updMap map[string]interface{}) (updated bool, err error)
	SkipIncomplete(requestID string) error
	ListPendingByUser(userID string, stageType *models.StageType) (list []dbmodels.WorkflowStage, err error)
	CountPendingByType(userID string) (counts map[models.StageType]int, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(list []dbmodels.WorkflowStage) error {
	if len(list) == 0 {
		return nil
	}
	return i.db.Omit(clause.Associations).
		Create(&list).
		Error
}

func (i impl) GetByID(id string) (rec *dbmodels.WorkflowStage, err error) {
	err = i.db.Model(dbmodels.WorkflowStage{}).
		Where("id = ?", id).
		Preload("AssignedUser").
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

func (i impl) ListByRequest(requestID string) (list []dbmodels.WorkflowStage, err error) {
	err = i.db.
		Where("request_id = ?", requestID).
		Preload("AssignedUser").
		Order("order_index").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByRequest(requestID string) error {
	return i.db.
		Where("request_id = ?", requestID).
		Delete(&dbmodels.WorkflowStage{}).
		Error
}

func (i impl) FirstPending(requestID string) (rec *dbmodels.WorkflowStage, err error) {
	return i.nextPending(requestID, 0)
}

func (i impl) NextPending(requestID string, afterOrder int) (rec *dbmodels.WorkflowStage, err error) {
	return i.nextPending(requestID, afterOrder)
}

func (i impl) nextPending(requestID string, afterOrder int) (rec *dbmodels.WorkflowStage, err error) {
	err = i.db.Model(dbmodels.WorkflowStage{}).
		Where("request_id = ?", requestID).
		Where("status = ?", models.StageStatusPending).
		Where("order_index > ?", afterOrder).
		Order("order_index").
		Preload("AssignedUser").
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

func (i impl) SetInProgress(id string) error {
	tx := i.db.
		Model(&dbmodels.WorkflowStage{}).
		Where("id = ?", id).
		Where("status = ?", models.StageStatusPending).
		Updates(map[string]interface{}{"status": models.StageStatusInProgress})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return errors.New("этап не найден или уже взят в работу")
	}
	return nil
}

// CompleteStage переводит незавершенный этап в COMPLETED.
// Возвращает false, если этап уже завершён конкурентно.
func (i impl) CompleteStage(id string, updMap map[string]interface{}) (updated bool, err error) {
	tx := i.db.
		Model(&dbmodels.WorkflowStage{}).
		Where("id = ?", id).
		Where("status IN ?", []interface{}{models.StageStatusPending, models.StageStatusInProgress}).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) SkipIncomplete(requestID string) error {
	return i.db.
		Model(&dbmodels.WorkflowStage{}).
		Where("request_id = ?", requestID).
		Where("status IN ?", []interface{}{models.StageStatusPending, models.StageStatusInProgress}).
		Updates(map[string]interface{}{"status": models.StageStatusSkipped}).
		Error
}

func (i impl) ListPendingByUser(userID string, stageType *models.StageType) (list []dbmodels.WorkflowStage, err error) {
	tx := i.db.
		Where("assigned_user_id = ?", userID).
		Where("status = ?", models.StageStatusInProgress)
	if stageType != nil && *stageType != "" {
		tx = tx.Where("stage_type = ?", *stageType)
	}
	err = tx.
		Preload("Request").
		Preload("Request.Creator").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountPendingByType(userID string) (counts map[models.StageType]int, err error) {
	type row struct {
		StageType models.StageType
		Cnt       int
	}
	rows := []row{}
	err = i.db.Model(dbmodels.WorkflowStage{}).
		Select("stage_type, count(*) as cnt").
		Where("assigned_user_id = ?", userID).
		Where("status = ?", models.StageStatusInProgress).
		Group("stage_type").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	counts = map[models.StageType]int{}
	for _, r := range rows {
		counts[r.StageType] = r.Cnt
	}
	return counts, nil
}
