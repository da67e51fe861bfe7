package account_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livroelivro/sebo/internal/account"
	"github.com/livroelivro/sebo/pkg/validator"
)

func ptr(s string) *string { return &s }

func validForm() account.RegistrationForm {
	return account.RegistrationForm{
		Name:            ptr("  Ana Souza "),
		CPF:             ptr("111.444.777-35"),
		BirthDate:       ptr("1990-05-07"),
		Email:           ptr("Ana@Example.com"),
		Phone:           ptr("11987654321"),
		CEP:             ptr("01310100"),
		State:           ptr("SP"),
		City:            ptr(" São Paulo "),
		Street:          ptr("Av. Paulista"),
		Number:          ptr("1000"),
		Complement:      ptr(" apto 12 "),
		Neighborhood:    ptr("Bela Vista"),
		Genres:          []string{"ficcao", " tecnico "},
		Password:        ptr("senha123"),
		ConfirmPassword: ptr("senha123"),
		Terms:           true,
	}
}

func TestRegistrationFormValidate(t *testing.T) {
	t.Run("valid form", func(t *testing.T) {
		assert.NoError(t, validForm().Validate())
	})

	t.Run("empty form reports every field once in order", func(t *testing.T) {
		err := account.RegistrationForm{}.Validate()
		require.Error(t, err)

		verrs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{
			"name", "cpf", "birthDate", "email", "phone", "cep", "state", "city",
			"street", "number", "neighborhood", "genres", "password", "confirmPassword", "terms",
		}, verrs.Fields())
		assert.Equal(t, []string{"Nome é obrigatório"}, verrs.Get("name"))
		assert.Equal(t, []string{"Cidade é obrigatória"}, verrs.Get("city"))
		assert.Equal(t, []string{"Selecione pelo menos um gênero de interesse"}, verrs.Get("genres"))
		assert.Equal(t, []string{"Você deve aceitar os Termos de Uso e Política de Privacidade"}, verrs.Get("terms"))
	})

	tenYearsAgo := time.Now().AddDate(-10, 0, 0).Format(time.DateOnly)

	tests := []struct {
		name   string
		mutate func(*account.RegistrationForm)
		field  string
		msg    string
	}{
		{"short trimmed name", func(f *account.RegistrationForm) { f.Name = ptr("  Al  ") }, "name", "Nome deve ter pelo menos 3 caracteres"},
		{"blank name", func(f *account.RegistrationForm) { f.Name = ptr("   ") }, "name", "Nome é obrigatório"},
		{"bad cpf", func(f *account.RegistrationForm) { f.CPF = ptr("111.444.777-36") }, "cpf", "CPF inválido"},
		{"repdigit cpf", func(f *account.RegistrationForm) { f.CPF = ptr("111.111.111-11") }, "cpf", "CPF inválido"},
		{"minor", func(f *account.RegistrationForm) { f.BirthDate = ptr(tenYearsAgo) }, "birthDate", "Você deve ter 18 anos ou mais"},
		{"garbage date", func(f *account.RegistrationForm) { f.BirthDate = ptr("ontem") }, "birthDate", "Você deve ter 18 anos ou mais"},
		{"bad email", func(f *account.RegistrationForm) { f.Email = ptr("ana@example") }, "email", "E-mail inválido"},
		{"bad phone", func(f *account.RegistrationForm) { f.Phone = ptr("1234") }, "phone", "Telefone inválido"},
		{"bad cep", func(f *account.RegistrationForm) { f.CEP = ptr("0131-010") }, "cep", "CEP inválido"},
		{"missing neighborhood", func(f *account.RegistrationForm) { f.Neighborhood = nil }, "neighborhood", "Bairro é obrigatório"},
		{"no genres", func(f *account.RegistrationForm) { f.Genres = nil }, "genres", "Selecione pelo menos um gênero de interesse"},
		{"too many genres", func(f *account.RegistrationForm) {
			f.Genres = []string{"ficcao", "nao-ficcao", "tecnico", "autoajuda", "infantil", "academico", "biografia", "outros", "poesia"}
		}, "genres", "Selecione no máximo 8 gêneros"},
		{"short password", func(f *account.RegistrationForm) { f.Password = ptr("abc"); f.ConfirmPassword = ptr("abc") }, "password", "Senha deve ter no mínimo 8 caracteres"},
		{"missing confirmation", func(f *account.RegistrationForm) { f.ConfirmPassword = nil }, "confirmPassword", "Confirmação de senha é obrigatória"},
		{"mismatch", func(f *account.RegistrationForm) { f.ConfirmPassword = ptr("senha124") }, "confirmPassword", "As senhas não coincidem"},
		{"terms", func(f *account.RegistrationForm) { f.Terms = false }, "terms", "Você deve aceitar os Termos de Uso e Política de Privacidade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			verrs := validator.ExtractValidationErrors(f.Validate())
			require.NotNil(t, verrs)
			assert.Equal(t, []string{tt.field}, verrs.Fields())
			assert.Equal(t, []string{tt.msg}, verrs.Get(tt.field))
		})
	}

	t.Run("errors carry translation keys", func(t *testing.T) {
		f := validForm()
		f.CPF = ptr("123")
		verrs := validator.ExtractValidationErrors(f.Validate())
		require.Len(t, verrs, 1)
		assert.Equal(t, "register.cpf_invalid", verrs[0].TranslationKey)
	})
}

func TestToCreateUserRequest(t *testing.T) {
	req := validForm().ToCreateUserRequest()

	assert.Equal(t, "Ana Souza", req.Name)
	assert.Equal(t, "ana@example.com", req.Email)
	assert.Equal(t, "111.444.777-35", req.CPF)
	assert.Equal(t, "(11) 98765-4321", req.Phone)
	assert.Equal(t, "1990-05-07", req.BirthDate)
	assert.Equal(t, "senha123", req.Password)
	assert.Equal(t, "01310-100", req.Address.CEP)
	assert.Equal(t, "São Paulo", req.Address.City)
	assert.Equal(t, "apto 12", req.Address.Complement)
	assert.Equal(t, []string{"ficcao", "tecnico"}, req.Preferences.Genres)
}

func TestProfileForm(t *testing.T) {
	f := account.ProfileForm{
		Name:         ptr("Ana Lima"),
		Phone:        ptr("1133334444"),
		CEP:          ptr("20040-002"),
		State:        ptr("RJ"),
		City:         ptr("Rio de Janeiro"),
		Street:       ptr("Rua do Ouvidor"),
		Number:       ptr("50"),
		Neighborhood: ptr("Centro"),
	}
	require.NoError(t, f.Validate())

	req := f.ToUpdateUserRequest()
	assert.Equal(t, "(11) 3333-4444", req.Phone)
	assert.Equal(t, "20040-002", req.Address.CEP)

	f.Phone = ptr("")
	verrs := validator.ExtractValidationErrors(f.Validate())
	assert.Equal(t, []string{"Telefone é obrigatório"}, verrs.Get("phone"))
}

func TestLoginFormValidate(t *testing.T) {
	assert.NoError(t, account.LoginForm{Email: "ana@example.com", Password: "x"}.Validate())

	verrs := validator.ExtractValidationErrors(account.LoginForm{Email: "nope"}.Validate())
	assert.Equal(t, []string{"email", "password"}, verrs.Fields())
}
