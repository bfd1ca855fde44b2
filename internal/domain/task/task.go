package task

import "encoding/json"

// Task is a unit of work carried over a Redis stream. TaskType names the stream.
type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

func DefaultTaskValue(task any) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T any](data []byte) (*T, error) {
	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
