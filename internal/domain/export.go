package domain

// JobMessage is the wire-level pointer published for every export task. It is
// a trigger only; workers must re-read the ExportTask row before acting on it,
// because the queue may deliver the same message more than once.
type JobMessage struct {
	TaskID     int64    `json:"taskId"`
	TaskType   TaskType `json:"taskType"`
	ParamsJSON string   `json:"paramsJson"`
}

// EmployeeExportParams narrows the employee export. Empty fields widen the
// query: no department means all active employees.
type EmployeeExportParams struct {
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

// UserExportParams narrows the user export.
type UserExportParams struct {
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}
