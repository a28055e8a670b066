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

var tokenNamespace = uuid.MustParse("b3e0a7c2-1d4f-4e6a-8c9b-5f2e7d1a0c38")

type tokenDocument struct {
	UserID    string    `json:"userId"`
	TokenHash string    `json:"tokenHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
}

// TokenStore keeps refresh tokens as documents of the tokens collection,
// one document per token hash.
type TokenStore struct {
	client *Client
}

var _ auth.TokenStore = (*TokenStore)(nil)

func NewTokenStore(client *Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) docID(hash string) string {
	return uuid.NewSHA1(tokenNamespace, []byte(hash)).String()
}

func (s *TokenStore) Save(ctx context.Context, t auth.RefreshToken) error {
	c := s.client
	doc := tokenDocument{UserID: t.UserID, TokenHash: t.TokenHash, ExpiresAt: t.ExpiresAt.UTC()}
	_, err := call(ctx, func() (*models.Document, error) {
		return c.databases.CreateDocument(c.databaseID, c.tokensCollectionID, s.docID(t.TokenHash), doc)
	})
	return errors.Wrap(err, "appwrite: save refresh token")
}

func (s *TokenStore) Consume(ctx context.Context, hash string) (*auth.RefreshToken, error) {
	c := s.client
	found, err := call(ctx, func() (*models.Document, error) {
		return c.databases.GetDocument(c.databaseID, c.tokensCollectionID, s.docID(hash))
	})
	if statusOf(err) == http.StatusNotFound {
		return nil, auth.ErrInvalidToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "appwrite: load refresh token")
	}

	var doc tokenDocument
	if err := found.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "appwrite: decode refresh token")
	}
	if doc.Revoked {
		return nil, auth.ErrInvalidToken
	}
	if err := s.Revoke(ctx, hash); err != nil {
		return nil, err
	}
	return &auth.RefreshToken{
		ID:        found.Id,
		UserID:    doc.UserID,
		TokenHash: doc.TokenHash,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (s *TokenStore) Revoke(ctx context.Context, hash string) error {
	c := s.client
	_, err := call(ctx, func() (*models.Document, error) {
		return c.databases.UpdateDocument(c.databaseID, c.tokensCollectionID, s.docID(hash),
			c.databases.WithUpdateDocumentData(map[string]bool{"revoked": true}))
	})
	if statusOf(err) == http.StatusNotFound {
		return nil
	}
	return errors.Wrap(err, "appwrite: revoke refresh token")
}
