package livroapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/livroelivro/sebo/pkg/fieldcheck"
)

type Address struct {
	CEP          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
}

type Preferences struct {
	Genres []string `json:"genres"`
}

// User is an account as returned by the remote service. BirthDate is ISO
// YYYY-MM-DD; the wire form is a [year, month, day] array.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	CPF         string      `json:"cpf"`
	Phone       string      `json:"phone"`
	BirthDate   string      `json:"birthDate"`
	Address     Address     `json:"address"`
	Preferences Preferences `json:"preferences"`
	BookIDs     []string    `json:"bookIDs,omitempty"`
	IsAdmin     bool        `json:"isAdmin,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"`
}

// OwnsBook reports whether id is among the user's listed books.
func (u User) OwnsBook(id string) bool {
	for _, b := range u.BookIDs {
		if b == id {
			return true
		}
	}
	return false
}

// CreateUserRequest is the registration payload. Password travels only here.
type CreateUserRequest struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	CPF         string      `json:"cpf"`
	Phone       string      `json:"phone"`
	BirthDate   string      `json:"birthDate"`
	Address     Address     `json:"address"`
	Preferences Preferences `json:"preferences"`
}

// UpdateUserRequest carries the editable profile fields.
type UpdateUserRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type Book struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn,omitempty"`
	Category      string `json:"category"`
	Condition     string `json:"condition"`
	Type          string `json:"type"`
	Description   string `json:"description,omitempty"`
	OwnerID       string `json:"ownerId,omitempty"`
	Image         string `json:"image,omitempty"`
	ImageFileName string `json:"imageFileName,omitempty"`
	PreSignedURL  string `json:"preSignedURL,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// BookInput is the body of create and update calls. ImageFileName asks the
// service for a pre-signed upload URL.
type BookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn,omitempty"`
	Category      string `json:"category"`
	Condition     string `json:"condition"`
	Type          string `json:"type"`
	Description   string `json:"description,omitempty"`
	ImageFileName string `json:"imageFileName,omitempty"`
}

type createBookRequest struct {
	OwnerEmail string    `json:"ownerEmail"`
	Book       BookInput `json:"book"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// dateParts is the remote date encoding: [year, month, day].
type dateParts [3]int

func (d dateParts) ISO() string {
	if d == (dateParts{}) {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d[0], d[1], d[2])
}

func datePartsFromISO(iso string) (dateParts, error) {
	if iso == "" {
		return dateParts{}, nil
	}
	t, ok := fieldcheck.ParseDate(iso)
	if !ok {
		return dateParts{}, fmt.Errorf("%w: %q", ErrInvalidDate, iso)
	}
	return dateParts{t.Year(), int(t.Month()), t.Day()}, nil
}

func (d dateParts) MarshalJSON() ([]byte, error) {
	if d == (dateParts{}) {
		return []byte("null"), nil
	}
	return json.Marshal([3]int(d))
}

// UnmarshalJSON accepts the array form, an ISO string, or null.
func (d *dateParts) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*d = dateParts{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := datePartsFromISO(s)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	var parts []int
	if err := json.Unmarshal(b, &parts); err != nil {
		return errors.Join(ErrInvalidDate, err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("%w: expected [year, month, day], got %d elements", ErrInvalidDate, len(parts))
	}
	*d = dateParts{parts[0], parts[1], parts[2]}
	return nil
}

// wireUser shadows BirthDate with the array encoding.
type wireUser struct {
	User
	BirthDate dateParts `json:"birthDate"`
}

func (w wireUser) toUser() User {
	u := w.User
	u.BirthDate = w.BirthDate.ISO()
	return u
}

type wireCreateUser struct {
	CreateUserRequest
	BirthDate dateParts `json:"birthDate"`
}
