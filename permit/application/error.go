package application

import (
	"net/http"

	"github.com/kabalen/permitdocs/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("APPLICATION")

var (
	CodeNotFound            = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeInvalidType         = ErrRegistry.Register("INVALID_TYPE", errx.TypeValidation, http.StatusBadRequest, "Invalid application type")
	CodeInvalidTIN          = ErrRegistry.Register("INVALID_TIN", errx.TypeValidation, http.StatusBadRequest, "Invalid TIN format")
	CodeCreationFailed      = ErrRegistry.Register("CREATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to create application")
	CodeUpdateFailed        = ErrRegistry.Register("UPDATE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to update application")
	CodeNotEditable         = ErrRegistry.Register("NOT_EDITABLE", errx.TypeConflict, http.StatusConflict, "Only draft applications can be edited")
	CodeAlreadySubmitted    = ErrRegistry.Register("ALREADY_SUBMITTED", errx.TypeConflict, http.StatusConflict, "Application was already submitted")
	CodeChecklistIncomplete = ErrRegistry.Register("CHECKLIST_INCOMPLETE", errx.TypeBusiness, http.StatusUnprocessableEntity, "Required documents are not yet verified")
)

func ErrNotFound() *errx.Error {
	return ErrRegistry.New(CodeNotFound)
}

func ErrInvalidType() *errx.Error {
	return ErrRegistry.New(CodeInvalidType)
}

func ErrInvalidTIN() *errx.Error {
	return ErrRegistry.New(CodeInvalidTIN)
}

func ErrCreationFailed() *errx.Error {
	return ErrRegistry.New(CodeCreationFailed)
}

func ErrUpdateFailed() *errx.Error {
	return ErrRegistry.New(CodeUpdateFailed)
}

func ErrNotEditable() *errx.Error {
	return ErrRegistry.New(CodeNotEditable)
}

func ErrAlreadySubmitted() *errx.Error {
	return ErrRegistry.New(CodeAlreadySubmitted)
}

func ErrChecklistIncomplete() *errx.Error {
	return ErrRegistry.New(CodeChecklistIncomplete)
}
