package account

import (
	"strings"

	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/fieldcheck"
	"github.com/livroelivro/sebo/pkg/sanitizer"
	"github.com/livroelivro/sebo/pkg/validator"
)

// maxGenres is the number of genre options offered on sign-up.
const maxGenres = 8

// RegistrationForm is the sign-up payload. Text fields are pointers so an
// absent field and an empty one validate the same way.
type RegistrationForm struct {
	Name            *string  `json:"name"`
	CPF             *string  `json:"cpf"`
	BirthDate       *string  `json:"birthDate"`
	Email           *string  `json:"email"`
	Phone           *string  `json:"phone"`
	CEP             *string  `json:"cep"`
	State           *string  `json:"state"`
	City            *string  `json:"city"`
	Street          *string  `json:"street"`
	Number          *string  `json:"number"`
	Complement      *string  `json:"complement"`
	Neighborhood    *string  `json:"neighborhood"`
	Genres          []string `json:"genres"`
	Password        *string  `json:"password"`
	ConfirmPassword *string  `json:"confirmPassword"`
	Terms           bool     `json:"terms"`
}

// Validate reports at most one error per field, in form order.
func (f RegistrationForm) Validate() error {
	var (
		name     = fieldcheck.Optional(f.Name)
		cpf      = fieldcheck.Optional(f.CPF)
		birth    = fieldcheck.Optional(f.BirthDate)
		email    = fieldcheck.Optional(f.Email)
		password = fieldcheck.Optional(f.Password)
		confirm  = fieldcheck.Optional(f.ConfirmPassword)
	)

	rules := []validator.Rule{
		validator.Required("name", name).WithMessage("register.name_required", "Nome é obrigatório"),
		validator.MinLen("name", strings.TrimSpace(name), 3).WithMessage("register.name_min_length", "Nome deve ter pelo menos 3 caracteres"),

		validator.Required("cpf", cpf).WithMessage("register.cpf_required", "CPF é obrigatório"),
		validator.ValidCPF("cpf", cpf).WithMessage("register.cpf_invalid", "CPF inválido"),

		validator.Required("birthDate", birth).WithMessage("register.birth_date_required", "Data de nascimento é obrigatória"),
		validator.Adult("birthDate", birth).WithMessage("register.underage", "Você deve ter 18 anos ou mais"),

		validator.Required("email", email).WithMessage("register.email_required", "E-mail é obrigatório"),
		validator.ValidEmail("email", email).WithMessage("register.email_invalid", "E-mail inválido"),
	}
	rules = append(rules, addressRules(f.Phone, f.CEP, f.State, f.City, f.Street, f.Number, f.Neighborhood)...)
	rules = append(rules,
		validator.RequiredSlice("genres", f.Genres).WithMessage("register.genres_required", "Selecione pelo menos um gênero de interesse"),
		validator.MaxLenSlice("genres", f.Genres, maxGenres).WithMessage("register.genres_max", "Selecione no máximo 8 gêneros"),

		validator.Required("password", password).WithMessage("register.password_required", "Senha é obrigatória"),
		validator.PasswordMinLength("password", password).WithMessage("register.password_min_length", "Senha deve ter no mínimo 8 caracteres"),

		validator.Required("confirmPassword", confirm).WithMessage("register.confirm_password_required", "Confirmação de senha é obrigatória"),
		validator.EqualTo("confirmPassword", confirm, password, "password").WithMessage("register.password_mismatch", "As senhas não coincidem"),

		validator.Accepted("terms", f.Terms).WithMessage("register.terms_required", "Você deve aceitar os Termos de Uso e Política de Privacidade"),
	)

	return validator.Apply(rules...)
}

// ToCreateUserRequest builds the API payload from a validated form. Text is
// trimmed; CPF, phone and CEP are sent masked.
func (f RegistrationForm) ToCreateUserRequest() livroapi.CreateUserRequest {
	genres := make([]string, 0, len(f.Genres))
	for _, g := range f.Genres {
		if g = sanitizer.Trim(g); g != "" {
			genres = append(genres, g)
		}
	}
	return livroapi.CreateUserRequest{
		Name:        sanitizer.Trim(fieldcheck.Optional(f.Name)),
		Email:       sanitizer.NormalizeEmail(fieldcheck.Optional(f.Email)),
		Password:    fieldcheck.Optional(f.Password),
		CPF:         fieldcheck.FormatCPF(fieldcheck.Optional(f.CPF)),
		Phone:       fieldcheck.FormatPhone(fieldcheck.Optional(f.Phone)),
		BirthDate:   sanitizer.Trim(fieldcheck.Optional(f.BirthDate)),
		Address:     buildAddress(f.CEP, f.State, f.City, f.Street, f.Number, f.Complement, f.Neighborhood),
		Preferences: livroapi.Preferences{Genres: genres},
	}
}

// ProfileForm holds the fields a user may change after registering. CPF
// and email are fixed.
type ProfileForm struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	CEP          *string `json:"cep"`
	State        *string `json:"state"`
	City         *string `json:"city"`
	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Complement   *string `json:"complement"`
	Neighborhood *string `json:"neighborhood"`
}

func (f ProfileForm) Validate() error {
	name := fieldcheck.Optional(f.Name)
	rules := []validator.Rule{
		validator.Required("name", name).WithMessage("register.name_required", "Nome é obrigatório"),
		validator.MinLen("name", strings.TrimSpace(name), 3).WithMessage("register.name_min_length", "Nome deve ter pelo menos 3 caracteres"),
	}
	rules = append(rules, addressRules(f.Phone, f.CEP, f.State, f.City, f.Street, f.Number, f.Neighborhood)...)
	return validator.Apply(rules...)
}

func (f ProfileForm) ToUpdateUserRequest() livroapi.UpdateUserRequest {
	return livroapi.UpdateUserRequest{
		Name:    sanitizer.Trim(fieldcheck.Optional(f.Name)),
		Phone:   fieldcheck.FormatPhone(fieldcheck.Optional(f.Phone)),
		Address: buildAddress(f.CEP, f.State, f.City, f.Street, f.Number, f.Complement, f.Neighborhood),
	}
}

func addressRules(phone, cep, state, city, street, number, neighborhood *string) []validator.Rule {
	p, c := fieldcheck.Optional(phone), fieldcheck.Optional(cep)
	return []validator.Rule{
		validator.Required("phone", p).WithMessage("register.phone_required", "Telefone é obrigatório"),
		validator.ValidPhoneBR("phone", p).WithMessage("register.phone_invalid", "Telefone inválido"),

		validator.Required("cep", c).WithMessage("register.cep_required", "CEP é obrigatório"),
		validator.ValidCEP("cep", c).WithMessage("register.cep_invalid", "CEP inválido"),

		validator.Required("state", fieldcheck.Optional(state)).WithMessage("register.state_required", "Estado é obrigatório"),
		validator.Required("city", fieldcheck.Optional(city)).WithMessage("register.city_required", "Cidade é obrigatória"),
		validator.Required("street", fieldcheck.Optional(street)).WithMessage("register.street_required", "Rua/Avenida é obrigatória"),
		validator.Required("number", fieldcheck.Optional(number)).WithMessage("register.number_required", "Número é obrigatório"),
		validator.Required("neighborhood", fieldcheck.Optional(neighborhood)).WithMessage("register.neighborhood_required", "Bairro é obrigatório"),
	}
}

func buildAddress(cep, state, city, street, number, complement, neighborhood *string) livroapi.Address {
	return livroapi.Address{
		CEP:          fieldcheck.FormatCEP(fieldcheck.Optional(cep)),
		State:        sanitizer.Trim(fieldcheck.Optional(state)),
		City:         sanitizer.Trim(fieldcheck.Optional(city)),
		Street:       sanitizer.Trim(fieldcheck.Optional(street)),
		Number:       sanitizer.Trim(fieldcheck.Optional(number)),
		Complement:   sanitizer.Trim(fieldcheck.Optional(complement)),
		Neighborhood: sanitizer.Trim(fieldcheck.Optional(neighborhood)),
	}
}

// LoginForm is the sign-in payload.
type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	return validator.Apply(
		validator.Required("email", f.Email).WithMessage("register.email_required", "E-mail é obrigatório"),
		validator.ValidEmail("email", f.Email).WithMessage("register.email_invalid", "E-mail inválido"),
		validator.Required("password", f.Password).WithMessage("register.password_required", "Senha é obrigatória"),
	)
}
