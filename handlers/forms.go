package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"personal-task-manager/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// max counts runes; maxbytes counts encoded bytes.
	if err := v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	}); err != nil {
		panic(err)
	}
	return v
}

type credentialsForm struct {
	Username string `validate:"required,max=64"`
	// bcrypt refuses passwords longer than 72 bytes.
	Password string `validate:"required,maxbytes=72"`
}

type taskForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	Priority    string `validate:"omitempty,oneof=Low Medium High"`
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
}

func parseCredentialsForm(r *http.Request) credentialsForm {
	return credentialsForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
}

func parseTaskForm(r *http.Request) taskForm {
	return taskForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: r.PostFormValue("description"),
		Priority:    r.PostFormValue("priority"),
		DueDate:     strings.TrimSpace(r.PostFormValue("due_date")),
	}
}

func (f taskForm) toNewTask() (models.NewTask, error) {
	priority, err := models.ParsePriority(f.Priority)
	if err != nil {
		return models.NewTask{}, err
	}
	return models.NewTask{
		Title:       f.Title,
		Description: f.Description,
		Priority:    priority,
		DueDate:     f.DueDate,
	}, nil
}

// validationMessage turns validator errors into a short plain-text message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid input!"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "maxbytes":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", fe.Field(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return "Invalid input: " + strings.Join(msgs, "; ")
}
