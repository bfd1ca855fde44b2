package task

import "category/extractor/internal/domain"

const ExtractionTaskType = "ExtractionTask"

type ExtractionTask struct {
	JobID   string                   `json:"job_id"`
	Request domain.ExtractionRequest `json:"request"`
}

func (t *ExtractionTask) TaskType() string {
	return ExtractionTaskType
}

func (t *ExtractionTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
