package response

import (
	"fmt"
	"net/http"
	"strings"

	"inbox_service/internal/apperror"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK(msg string) Response {
	return Response{
		Success: true,
		Message: msg,
	}
}

func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param()))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be at most %s characters", err.Field(), err.Param()))
		case "len":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s must be exactly %s characters", err.Field(), err.Param()))
		case "username":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s may contain only letters, digits and underscores", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Response{
		Success: false,
		Message: strings.Join(errMsgs, ", "),
	}
}

// AppError renders err with the status of its kind. Errors without a kind are
// reported as internal so that no storage detail reaches the client.
func AppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.From(err)
	if !ok {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error("Internal error"))

		return
	}

	render.Status(r, appErr.StatusCode())
	render.JSON(w, r, Error(appErr.Message))
}
