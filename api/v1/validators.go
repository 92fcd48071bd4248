package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// RegisterValidators installs the custom binding rules on gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("project_status", validateProjectStatus); err != nil {
		return err
	}
	v.RegisterStructValidation(validateCreateProjectDates, dto.CreateProjectRequest{})
	v.RegisterStructValidation(validateUpdateProjectDates, dto.UpdateProjectRequest{})
	return nil
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	return models.ProjectStatus(fl.Field().String()).Valid()
}

func validateCreateProjectDates(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.CreateProjectRequest)
	checkDateOrder(sl, req.StartDate, req.EndDate)
}

func validateUpdateProjectDates(sl validator.StructLevel) {
	req := sl.Current().Interface().(dto.UpdateProjectRequest)
	checkDateOrder(sl, req.StartDate, req.EndDate)
}

// checkDateOrder reports end dates before start dates. Unparseable dates are
// left to the datetime field rule.
func checkDateOrder(sl validator.StructLevel, start, end *string) {
	if start == nil || end == nil || *start == "" || *end == "" {
		return
	}
	s, err := time.Parse(dto.DateLayout, *start)
	if err != nil {
		return
	}
	e, err := time.Parse(dto.DateLayout, *end)
	if err != nil {
		return
	}
	if e.Before(s) {
		sl.ReportError(*end, "EndDate", "endDate", "date_order", "")
	}
}
