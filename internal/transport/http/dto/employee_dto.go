package dto

type CreateEmployeeRequest struct {
	Name       string  `json:"name"`
	Gender     string  `json:"gender"`
	Age        int     `json:"age"`
	Department string  `json:"department"`
	Position   string  `json:"position"`
	HireDate   string  `json:"hire_date"`
	Salary     float64 `json:"salary"`
}

func (r *CreateEmployeeRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Name == "" {
		errs["name"] = "name is required"
	}
	if r.Age < 0 || r.Age > 150 {
		errs["age"] = "age is out of range"
	}
	if r.Salary < 0 {
		errs["salary"] = "salary cannot be negative"
	}
	return errs
}

type UpdateEmployeeRequest struct {
	Name       *string  `json:"name"`
	Gender     *string  `json:"gender"`
	Age        *int     `json:"age"`
	Department *string  `json:"department"`
	Position   *string  `json:"position"`
	Salary     *float64 `json:"salary"`
}
