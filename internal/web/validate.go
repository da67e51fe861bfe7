package web

import (
	"net/http"

	"github.com/livroelivro/sebo/pkg/fieldcheck"
)

type validateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type validateResponse struct {
	Valid     bool                       `json:"valid"`
	Formatted string                     `json:"formatted,omitempty"`
	Region    string                     `json:"region,omitempty"`
	Password  *fieldcheck.PasswordResult `json:"password,omitempty"`
}

// validateField runs one field check for live form feedback.
func (h *Handler) validateField(r *http.Request) Response {
	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		return h.fail(r, err)
	}

	res, ok := checkField(req.Field, req.Value)
	if !ok {
		return h.fail(r, ErrUnknownField)
	}
	return JSON(res)
}

func checkField(field, value string) (validateResponse, bool) {
	var res validateResponse
	switch field {
	case "cpf":
		res.Valid = fieldcheck.ValidateCPF(value)
		res.Formatted = fieldcheck.FormatCPF(value)
		if res.Valid {
			res.Region = fieldcheck.CPFRegion(value)
		}
	case "phone":
		res.Valid = fieldcheck.ValidatePhone(value)
		res.Formatted = fieldcheck.FormatPhone(value)
	case "cep":
		res.Valid = fieldcheck.ValidateCEP(value)
		res.Formatted = fieldcheck.FormatCEP(value)
	case "email":
		res.Valid = fieldcheck.ValidateEmail(value)
	case "birthDate":
		res.Valid = fieldcheck.ValidateAge(value)
	case "password":
		pw := fieldcheck.ValidatePassword(value)
		res.Valid = pw.IsValid
		res.Password = &pw
	case "required":
		res.Valid = fieldcheck.ValidateRequired(value)
	case "number":
		res.Valid = fieldcheck.ValidateNumber(value)
	case "url":
		res.Valid = fieldcheck.ValidateURL(value)
	default:
		return res, false
	}
	return res, true
}
