package models

type RequestStatus string

const (
	RequestStatusDraft      RequestStatus = "DRAFT"
	RequestStatusSubmitted  RequestStatus = "SUBMITTED"
	RequestStatusInReview   RequestStatus = "IN_REVIEW"
	RequestStatusInApproval RequestStatus = "IN_APPROVAL"
	RequestStatusApproved   RequestStatus = "APPROVED"
	RequestStatusRejected   RequestStatus = "REJECTED"
	RequestStatusCancelled  RequestStatus = "CANCELLED"
)

var requestStatusHumanName = map[RequestStatus]string{
	RequestStatusDraft:      "Черновик",
	RequestStatusSubmitted:  "Отправлена",
	RequestStatusInReview:   "На рекомендации",
	RequestStatusInApproval: "На согласовании",
	RequestStatusApproved:   "Согласована",
	RequestStatusRejected:   "Отклонена",
	RequestStatusCancelled:  "Отменена",
}

func (s RequestStatus) ToHuman() string {
	if human, exist := requestStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCancelled
}

// заявка находится в процессе согласования
func (s RequestStatus) IsActive() bool {
	return s == RequestStatusSubmitted || s == RequestStatusInReview || s == RequestStatusInApproval
}

func (s RequestStatus) AllowCancel() bool {
	return !s.IsTerminal()
}

type StageType string

const (
	StageTypeRecommend StageType = "RECOMMEND"
	StageTypeApprove   StageType = "APPROVE"
)

func (t StageType) IsValid() bool {
	return t == StageTypeRecommend || t == StageTypeApprove
}

// статус заявки, пока этап данного типа является активным
func (t StageType) ActiveRequestStatus() RequestStatus {
	if t == StageTypeApprove {
		return RequestStatusInApproval
	}
	return RequestStatusInReview
}

type StageStatus string

const (
	StageStatusPending    StageStatus = "PENDING"
	StageStatusInProgress StageStatus = "IN_PROGRESS"
	StageStatusCompleted  StageStatus = "COMPLETED"
	StageStatusSkipped    StageStatus = "SKIPPED"
)

var stageStatusHumanName = map[StageStatus]string{
	StageStatusPending:    "Ожидает",
	StageStatusInProgress: "В работе",
	StageStatusCompleted:  "Завершен",
	StageStatusSkipped:    "Пропущен",
}

func (s StageStatus) ToHuman() string {
	if human, exist := stageStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// этап еще ожидает действия от ответственного
func (s StageStatus) IsActionable() bool {
	return s == StageStatusPending || s == StageStatusInProgress
}

type StageAction string

const (
	StageActionRecommended StageAction = "RECOMMENDED"
	StageActionApproved    StageAction = "APPROVED"
	StageActionRejected    StageAction = "REJECTED"
)

// допустимые действия зависят от типа этапа:
// RECOMMEND - только рекомендация, APPROVE - согласование или отклонение
func (t StageType) AllowAction(action StageAction) bool {
	switch t {
	case StageTypeRecommend:
		return action == StageActionRecommended
	case StageTypeApprove:
		return action == StageActionApproved || action == StageActionRejected
	}
	return false
}
