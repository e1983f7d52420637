package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
)

// validate instancia compartida; valida los tags `validate` de los DTOs.
var validate = validator.New()

// validateStruct valida un request DTO y devuelve la lista completa de
// campos violados, o nil si es válido.
func validateStruct(in any) []dto.FieldErrorDTO {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []dto.FieldErrorDTO{{Field: "body", Message: "cuerpo inválido"}}
	}
	fields := make([]dto.FieldErrorDTO, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "es requerido"
		case "email":
			msg = "debe ser un email válido"
		case "min":
			msg = fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		case "max":
			msg = fmt.Sprintf("no puede superar %s caracteres", fe.Param())
		case "oneof":
			msg = fmt.Sprintf("debe ser uno de: %s", fe.Param())
		case "len":
			msg = fmt.Sprintf("debe tener exactamente %s caracteres", fe.Param())
		default:
			msg = "es inválido"
		}
		fields = append(fields, dto.FieldErrorDTO{Field: snakeField(fe.Field()), Message: msg})
	}
	return fields
}

// badRequestValidation responde 400 con la lista de campos violados.
func badRequestValidation(c *fiber.Ctx, fields []dto.FieldErrorDTO) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "uno o más campos son inválidos",
		Errors:  fields,
	})
}

// domainValidationError traduce un *domain.ValidationError a 400 con campos.
func domainValidationError(c *fiber.Ctx, ve *domain.ValidationError) error {
	fields := make([]dto.FieldErrorDTO, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, dto.FieldErrorDTO{Field: f.Field, Message: f.Message})
	}
	return badRequestValidation(c, fields)
}

// snakeField convierte el nombre del campo Go al formato del wire
// (snake_case). Las siglas se tratan como una sola palabra: ContactID -> contact_id.
func snakeField(field string) string {
	runes := []rune(field)
	out := make([]rune, 0, len(runes)+4)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if i > 0 && (prevLower || nextLower) {
				out = append(out, '_')
			}
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
