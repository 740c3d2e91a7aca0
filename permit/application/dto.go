package application

import "github.com/kabalen/permitdocs/pkg/kernel"

// CreateApplicationRequest opens a new permit application
type CreateApplicationRequest struct {
	Type Type `json:"type" validate:"required,oneof=new renewal liquor amendment"`

	OwnerFirstName  string `json:"owner_first_name" validate:"required"`
	OwnerMiddleName string `json:"owner_middle_name,omitempty"`
	OwnerLastName   string `json:"owner_last_name" validate:"required"`

	BusinessName    string `json:"business_name" validate:"required"`
	BusinessAddress string `json:"business_address,omitempty"`
	TIN             string `json:"tin,omitempty"`

	DeclaredIDType   string `json:"declared_id_type,omitempty"`
	DeclaredIDNumber string `json:"declared_id_number,omitempty"`
}

// UpdateApplicationRequest amends the details of a draft application.
// Nil fields are left unchanged.
type UpdateApplicationRequest struct {
	OwnerFirstName  *string `json:"owner_first_name,omitempty"`
	OwnerMiddleName *string `json:"owner_middle_name,omitempty"`
	OwnerLastName   *string `json:"owner_last_name,omitempty"`

	BusinessName    *string `json:"business_name,omitempty"`
	BusinessAddress *string `json:"business_address,omitempty"`

	DeclaredIDType   *string `json:"declared_id_type,omitempty"`
	DeclaredIDNumber *string `json:"declared_id_number,omitempty"`
}

// ListApplicationsRequest filters the application listing
type ListApplicationsRequest struct {
	Status     Status                   `json:"status,omitempty"`
	Type       Type                     `json:"type,omitempty"`
	Pagination kernel.PaginationOptions `json:"pagination"`
}
