package appwrite

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/appwrite/sdk-for-go/models"
	"github.com/google/uuid"
)

// documentNamespace seeds the deterministic ids of collection documents.
var documentNamespace = uuid.MustParse("6f1c4d1e-8a52-4c5e-9b0e-3f7d2a9c4b11")

// DocumentID is the id of the document holding key for userID.
func DocumentID(userID, key string) string {
	return uuid.NewSHA1(documentNamespace, []byte(userID+"/"+key)).String()
}

type collectionDocument struct {
	UserID     string `json:"userId"`
	Collection string `json:"collection"`
	Data       string `json:"data"`
}

// Store is a storage.BlobStore over the documents of one user.
type Store struct {
	client *Client
	userID string
}

var _ storage.BlobStore = (*Store)(nil)

func NewStore(client *Client, userID string) *Store {
	return &Store{client: client, userID: userID}
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	c := s.client
	doc, err := call(ctx, func() (*models.Document, error) {
		return c.databases.GetDocument(c.databaseID, c.collectionID, DocumentID(s.userID, key))
	})
	if statusOf(err) == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, storage.RemoteCall("load", key, err)
	}

	var body collectionDocument
	if err := doc.Decode(&body); err != nil {
		return nil, storage.RemoteCall("load", key, err)
	}
	if body.UserID != s.userID {
		return nil, storage.RemoteCall("load", key, fmt.Errorf("document belongs to another user"))
	}
	return []byte(body.Data), nil
}

func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	c := s.client
	body := collectionDocument{UserID: s.userID, Collection: key, Data: string(data)}
	_, err := call(ctx, func() (*models.Document, error) {
		return c.databases.UpsertDocument(c.databaseID, c.collectionID, DocumentID(s.userID, key), body)
	})
	if err != nil {
		return storage.RemoteCall("save", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	c := s.client
	for _, key := range keys {
		_, err := call(ctx, func() (*any, error) {
			return c.databases.DeleteDocument(c.databaseID, c.collectionID, DocumentID(s.userID, key))
		})
		if err != nil && statusOf(err) != http.StatusNotFound {
			return storage.RemoteCall("delete", key, err)
		}
	}
	return nil
}

type Opener struct {
	client   *Client
	mu       sync.Mutex
	backends map[string]*storage.BlobBackend
}

func NewOpener(client *Client) *Opener {
	return &Opener{client: client, backends: make(map[string]*storage.BlobBackend)}
}

func (o *Opener) Open(userID string) storage.Backend {
	o.mu.Lock()
	defer o.mu.Unlock()

	if b, ok := o.backends[userID]; ok {
		return b
	}
	b := storage.NewBlobBackend(NewStore(o.client, userID))
	o.backends[userID] = b
	return b
}
