package appwrite

import (
	"context"
	"net/http"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/auth"
	"github.com/appwrite/sdk-for-go/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func toAccount(u *models.User) *auth.Account {
	created, _ := time.Parse(time.RFC3339, u.CreatedAt)
	return &auth.Account{ID: u.Id, Email: u.Email, Name: u.Name, CreatedAt: created}
}

// Directory keeps accounts in Appwrite's users service.
type Directory struct {
	client *Client
}

var _ auth.Directory = (*Directory)(nil)

func NewDirectory(client *Client) *Directory {
	return &Directory{client: client}
}

func (d *Directory) Create(ctx context.Context, email, password, name string) (*auth.Account, error) {
	u, err := call(ctx, func() (*models.User, error) {
		svc := d.client.users
		return svc.Create(uuid.NewString(),
			svc.WithCreateEmail(email),
			svc.WithCreatePassword(password),
			svc.WithCreateName(name),
		)
	})
	if statusOf(err) == http.StatusConflict {
		return nil, auth.ErrEmailTaken
	}
	if err != nil {
		return nil, errors.Wrap(err, "appwrite: create user")
	}
	return toAccount(u), nil
}

// Verify opens an email session to check the password and deletes it again;
// the API issues its own tokens.
func (d *Directory) Verify(ctx context.Context, email, password string) (*auth.Account, error) {
	session, err := call(ctx, func() (*models.Session, error) {
		return d.client.sessions.CreateEmailPasswordSession(email, password)
	})
	switch status := statusOf(err); {
	case status == http.StatusUnauthorized || status == http.StatusBadRequest:
		return nil, auth.ErrInvalidCredentials
	case err != nil:
		return nil, errors.Wrap(err, "appwrite: create session")
	}

	_, err = call(ctx, func() (*any, error) {
		return d.client.users.DeleteSession(session.UserId, session.Id)
	})
	if err != nil {
		return nil, errors.Wrap(err, "appwrite: delete session")
	}
	return d.Get(ctx, session.UserId)
}

func (d *Directory) Get(ctx context.Context, id string) (*auth.Account, error) {
	u, err := call(ctx, func() (*models.User, error) { return d.client.users.Get(id) })
	if statusOf(err) == http.StatusNotFound {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "appwrite: get user")
	}
	return toAccount(u), nil
}
