package dto

type CreateUserRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	EmployeeID *uint  `json:"employee_id"`
}

func (r *CreateUserRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Username == "" {
		errs["username"] = "username is required"
	}
	if len(r.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	return errs
}

type UpdateUserRequest struct {
	Email      *string `json:"email"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
	Enabled    *bool   `json:"enabled"`
}
