package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dario-aloisi/gestionale-ordini/internal/apierror"
	"github.com/dario-aloisi/gestionale-ordini/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON non valido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// rispondiErrore maps service errors onto HTTP statuses: missing resources to
// 404, code collisions to 409, expired drafts to 410, anything else to 400.
func rispondiErrore(c *gin.Context, err error) {
	var dup *service.CodiceDuplicatoError
	switch {
	case errors.Is(err, service.ErrNonTrovato):
		c.JSON(http.StatusNotFound, apierror.New("Risorsa non trovata"))
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, apierror.New(dup.Error()))
	case errors.Is(err, service.ErrBozzaScaduta):
		c.JSON(http.StatusGone, apierror.New(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

// parseID reads the :id path param as a uuid, answering 400 on garbage.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID non valido"))
		return uuid.Nil, false
	}
	return id, true
}
