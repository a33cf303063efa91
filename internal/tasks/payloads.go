package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeTaskImportFilings = "task:import_filings"
	TypeTaskRecomputePLIs = "task:recompute_plis"
)

// ImportFilingsPayload narrows a filing import run. With a nil CIN the run
// covers every company that filed in the period; Days overrides the default
// listing window.
type ImportFilingsPayload struct {
	CIN  *string `json:"cin"`
	Days *int    `json:"days"`
}

func NewImportFilingsTask(cin *string, days *int) (*asynq.Task, error) {
	payload := ImportFilingsPayload{
		CIN:  cin,
		Days: days,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeTaskImportFilings, payloadBytes), nil
}

// RecomputePLIsPayload limits a recompute to one company; nil means all.
type RecomputePLIsPayload struct {
	CompanyID *uint `json:"company_id"`
}

func NewRecomputePLIsTask(companyID *uint) (*asynq.Task, error) {
	payload := RecomputePLIsPayload{CompanyID: companyID}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeTaskRecomputePLIs, payloadBytes), nil
}
