package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fabrica-tour/api/internal/domain"
)

type CreateUserRequest struct {
	Matricula string `json:"matricula"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	GroupID   *uint  `json:"group_id"`
}

func (req *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Matricula, validation.Required, validation.Length(2, 20)),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Role, validation.Required, validation.In(domain.RoleAdmin, domain.RoleUser)),
	)
	if err != nil {
		return err
	}

	if ok, _ := passwordExp.MatchString(req.Password); !ok {
		return errInvalidPassword
	}

	return nil
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
	GroupID  *uint  `json:"group_id"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Role, validation.Required, validation.In(domain.RoleAdmin, domain.RoleUser)),
	)
}

type AssignGroupRequest struct {
	GroupID *uint `json:"group_id"`
}
