package dto

type EmployeeExportRequest struct {
	Department string `json:"department"`
	Position   string `json:"position"`
}

type UserExportRequest struct {
	Role       string `json:"role"`
	Department string `json:"department"`
}

type SubmitExportResponse struct {
	TaskID int64 `json:"task_id"`
}
