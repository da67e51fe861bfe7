package account_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livroelivro/sebo/internal/account"
	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/validator"
)

type fakeAPI struct {
	created   *livroapi.CreateUserRequest
	updated   *livroapi.UpdateUserRequest
	loginErr  error
	createErr error
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (livroapi.User, error) {
	if f.loginErr != nil {
		return livroapi.User{}, f.loginErr
	}
	if password != "senha123" {
		return livroapi.User{}, errors.Join(livroapi.ErrInvalidCredentials, &livroapi.APIError{Status: 401})
	}
	return livroapi.User{ID: "u1", Name: "Ana Souza", Email: email, BookIDs: []string{"b1"}}, nil
}

func (f *fakeAPI) CreateUser(_ context.Context, req livroapi.CreateUserRequest) (livroapi.User, error) {
	f.created = &req
	if f.createErr != nil {
		return livroapi.User{}, f.createErr
	}
	return livroapi.User{ID: "u1", Name: req.Name, Email: req.Email, CPF: req.CPF, BirthDate: req.BirthDate}, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, id string, req livroapi.UpdateUserRequest) (livroapi.User, error) {
	f.updated = &req
	return livroapi.User{}, nil
}

func session(t *testing.T) kvstore.Store {
	t.Helper()
	store := kvstore.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	return kvstore.Namespace(store, "visitor-1")
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and logs in", func(t *testing.T) {
		api := &fakeAPI{}
		svc := account.NewService(api)
		sess := session(t)

		user, err := svc.Register(ctx, sess, validForm())
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		require.NotNil(t, api.created)
		assert.Equal(t, "senha123", api.created.Password)

		current, err := svc.CurrentUser(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, user, current)
	})

	t.Run("invalid form never reaches the api", func(t *testing.T) {
		api := &fakeAPI{}
		svc := account.NewService(api)

		_, err := svc.Register(ctx, session(t), account.RegistrationForm{})
		assert.True(t, validator.IsValidationError(err))
		assert.Nil(t, api.created)
	})

	t.Run("conflict becomes an email field error", func(t *testing.T) {
		api := &fakeAPI{createErr: &livroapi.APIError{Status: http.StatusConflict}}
		svc := account.NewService(api)
		sess := session(t)

		_, err := svc.Register(ctx, sess, validForm())
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"email"}, verrs.Fields())
		assert.Equal(t, []string{"Este e-mail já está cadastrado"}, verrs.Get("email"))
		assert.Equal(t, "register.email_taken", verrs.GetErrors("email")[0].TranslationKey)

		_, err = svc.CurrentUser(ctx, sess)
		assert.ErrorIs(t, err, account.ErrNotLoggedIn)
	})

	t.Run("other remote failures pass through", func(t *testing.T) {
		api := &fakeAPI{createErr: &livroapi.APIError{Status: http.StatusBadRequest}}
		_, err := account.NewService(api).Register(ctx, session(t), validForm())

		var apiErr *livroapi.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.False(t, validator.IsValidationError(err))
	})
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc := account.NewService(&fakeAPI{})
	sess := session(t)

	_, err := svc.CurrentUser(ctx, sess)
	assert.ErrorIs(t, err, account.ErrNotLoggedIn)

	_, err = svc.Login(ctx, sess, account.LoginForm{Email: "ana@example.com", Password: "errada"})
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	user, err := svc.Login(ctx, sess, account.LoginForm{Email: " ANA@example.com", Password: "senha123"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	current, err := svc.CurrentUser(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "u1", current.ID)

	require.NoError(t, svc.Logout(ctx, sess))
	_, err = svc.CurrentUser(ctx, sess)
	assert.ErrorIs(t, err, account.ErrNotLoggedIn)

	t.Run("remote failure is passed through", func(t *testing.T) {
		boom := &livroapi.APIError{Status: 503}
		svc := account.NewService(&fakeAPI{loginErr: boom})
		_, err := svc.Login(ctx, session(t), account.LoginForm{Email: "ana@example.com", Password: "senha123"})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, account.ErrInvalidCredentials)
	})
}

func TestCorruptSession(t *testing.T) {
	ctx := context.Background()
	sess := session(t)
	require.NoError(t, sess.Set(ctx, "currentUser", []byte("{not json"), 0))

	_, err := account.NewService(&fakeAPI{}).CurrentUser(ctx, sess)
	assert.ErrorIs(t, err, account.ErrCorruptSession)
}

func TestUpdateProfileAndBooks(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	svc := account.NewService(api)
	sess := session(t)

	_, err := svc.UpdateProfile(ctx, sess, account.ProfileForm{})
	assert.ErrorIs(t, err, account.ErrNotLoggedIn)

	_, err = svc.Login(ctx, sess, account.LoginForm{Email: "ana@example.com", Password: "senha123"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, sess, account.ProfileForm{
		Name:         ptr(" Ana Lima "),
		Phone:        ptr("11987654321"),
		CEP:          ptr("01310100"),
		State:        ptr("SP"),
		City:         ptr("São Paulo"),
		Street:       ptr("Av. Paulista"),
		Number:       ptr("1000"),
		Neighborhood: ptr("Bela Vista"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email, "email is not editable")
	assert.Equal(t, []string{"b1"}, updated.BookIDs)
	assert.Equal(t, "01310-100", updated.Address.CEP)

	require.NoError(t, svc.AddBook(ctx, sess, "b2"))
	require.NoError(t, svc.AddBook(ctx, sess, "b2"))
	require.NoError(t, svc.RemoveBook(ctx, sess, "b1"))
	current, err := svc.CurrentUser(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, current.BookIDs)
}

func TestCookieConsent(t *testing.T) {
	ctx := context.Background()
	svc := account.NewService(&fakeAPI{})
	sess := session(t)

	v, err := svc.CookieConsent(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, svc.SetCookieConsent(ctx, sess, false))
	v, err = svc.CookieConsent(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, account.ConsentRejected, v)
}

type bookList []livroapi.Book

func (b bookList) Books(context.Context) ([]livroapi.Book, error) { return b, nil }

type cartCount int

func (c cartCount) Count(context.Context, kvstore.Store) (int, error) { return int(c), nil }

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	svc := account.NewService(&fakeAPI{})
	sess := session(t)

	_, err := svc.Dashboard(ctx, sess, bookList{}, cartCount(0))
	assert.ErrorIs(t, err, account.ErrNotLoggedIn)

	_, err = svc.Login(ctx, sess, account.LoginForm{Email: "ana@example.com", Password: "senha123"})
	require.NoError(t, err)

	orders := []account.Order{
		{ID: "o1", UserID: "u1", Status: "concluido"},
		{ID: "o2", UserID: "u1", Status: "cancelado"},
		{ID: "o3", UserID: "u1", Status: "aguardando"},
		{ID: "o4", UserID: "u1", Status: ""},
		{ID: "o5", UserID: "u2", Status: "aguardando"},
	}
	require.NoError(t, kvstore.SetJSON(ctx, sess, "orders", orders, 0))

	books := bookList{
		{ID: "b1", OwnerID: "u1"},
		{ID: "b2", OwnerID: "u2"},
		{ID: "b3", OwnerID: "u1"},
	}

	d, err := svc.Dashboard(ctx, sess, books, cartCount(3))
	require.NoError(t, err)
	assert.Equal(t, account.Dashboard{MyBooks: 2, CompletedOrders: 1, PendingOrders: 2, CartItems: 3}, d)
}
