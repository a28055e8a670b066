package appwrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/wellness-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAppwrite implements the slice of the Appwrite REST API the package uses.
type fakeAppwrite struct {
	mu        sync.Mutex
	docs      map[string]map[string]any
	users     map[string]map[string]any
	passwords map[string]string
	sessions  map[string]string
	failDocs  bool
}

func newFakeAppwrite(t *testing.T) (*fakeAppwrite, *httptest.Server) {
	f := &fakeAppwrite{
		docs:      map[string]map[string]any{},
		users:     map[string]map[string]any{},
		passwords: map[string]string{},
		sessions:  map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"name": "http", "ping": 1, "status": "pass"})
	})
	mux.HandleFunc("GET /databases/{db}/collections/{coll}/documents/{id}", f.getDocument)
	mux.HandleFunc("PUT /databases/{db}/collections/{coll}/documents/{id}", f.upsertDocument)
	mux.HandleFunc("PATCH /databases/{db}/collections/{coll}/documents/{id}", f.patchDocument)
	mux.HandleFunc("DELETE /databases/{db}/collections/{coll}/documents/{id}", f.deleteDocument)
	mux.HandleFunc("POST /databases/{db}/collections/{coll}/documents", f.createDocument)
	mux.HandleFunc("POST /users", f.createUser)
	mux.HandleFunc("GET /users/{id}", f.getUser)
	mux.HandleFunc("POST /account/sessions/email", f.createSession)
	mux.HandleFunc("DELETE /users/{uid}/sessions/{sid}", f.deleteSession)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Appwrite-Project") != "wellness-test" {
			writeError(w, http.StatusUnauthorized, "project_unknown")
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, typ string) {
	writeJSON(w, status, map[string]any{"message": typ, "code": status, "type": typ})
}

func docKey(r *http.Request) string {
	return r.PathValue("coll") + "/" + r.PathValue("id")
}

func (f *fakeAppwrite) getDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDocs {
		writeError(w, http.StatusInternalServerError, "general_unknown")
		return
	}
	doc, ok := f.docs[docKey(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "document_not_found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (f *fakeAppwrite) upsertDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDocs {
		writeError(w, http.StatusInternalServerError, "general_unknown")
		return
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	body.Data["$id"] = r.PathValue("id")
	f.docs[docKey(r)] = body.Data
	writeJSON(w, http.StatusOK, body.Data)
}

func (f *fakeAppwrite) patchDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDocs {
		writeError(w, http.StatusInternalServerError, "general_unknown")
		return
	}
	doc, ok := f.docs[docKey(r)]
	if !ok {
		writeError(w, http.StatusNotFound, "document_not_found")
		return
	}
	var body struct {
		Data map[string]any `json:"data"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	for k, v := range body.Data {
		doc[k] = v
	}
	writeJSON(w, http.StatusOK, doc)
}

func (f *fakeAppwrite) deleteDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[docKey(r)]; !ok {
		writeError(w, http.StatusNotFound, "document_not_found")
		return
	}
	delete(f.docs, docKey(r))
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeAppwrite) createDocument(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var body struct {
		DocumentID string         `json:"documentId"`
		Data       map[string]any `json:"data"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	key := r.PathValue("coll") + "/" + body.DocumentID
	if _, ok := f.docs[key]; ok {
		writeError(w, http.StatusConflict, "document_already_exists")
		return
	}
	body.Data["$id"] = body.DocumentID
	f.docs[key] = body.Data
	writeJSON(w, http.StatusCreated, body.Data)
}

func (f *fakeAppwrite) createUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	for _, u := range f.users {
		if u["email"] == body["email"] {
			writeError(w, http.StatusConflict, "user_already_exists")
			return
		}
	}
	u := map[string]any{
		"$id":        body["userId"],
		"email":      body["email"],
		"name":       body["name"],
		"$createdAt": time.Now().UTC().Format(time.RFC3339),
	}
	f.users[body["userId"]] = u
	f.passwords[body["userId"]] = body["password"]
	writeJSON(w, http.StatusCreated, u)
}

func (f *fakeAppwrite) getUser(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "user_not_found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (f *fakeAppwrite) createSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Header.Get("X-Appwrite-Key") != "" {
		writeError(w, http.StatusForbidden, "general_unauthorized_scope")
		return
	}
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	for id, u := range f.users {
		if u["email"] == body["email"] && f.passwords[id] == body["password"] {
			sid := "session-" + id
			f.sessions[sid] = id
			writeJSON(w, http.StatusCreated, map[string]string{"$id": sid, "userId": id})
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "user_invalid_credentials")
}

func (f *fakeAppwrite) deleteSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, r.PathValue("sid"))
	w.WriteHeader(http.StatusNoContent)
}

func newTestClient(srv *httptest.Server, project string) *Client {
	return NewClient(&config.Config{
		AppwriteEndpoint:           srv.URL + "/",
		AppwriteProjectID:          project,
		AppwriteAPIKey:             "server-key",
		AppwriteDatabaseID:         "wellness",
		AppwriteCollectionID:       "user_data",
		AppwriteTokensCollectionID: "refresh_tokens",
	}, WithHTTPClient(srv.Client()))
}

func TestClient_Ping(t *testing.T) {
	_, srv := newFakeAppwrite(t)

	require.NoError(t, newTestClient(srv, "wellness-test").Ping(context.Background()))

	err := newTestClient(srv, "someone-else").Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f, srv := newFakeAppwrite(t)
	b := NewOpener(newTestClient(srv, "wellness-test")).Open("user-1")

	_, err := b.SaveWorkout(ctx, models.Workout{Date: "2024-01-10", Label: "Leg Day", Duration: 45, Calories: 300})
	require.NoError(t, err)
	_, err = b.SaveWorkout(ctx, models.Workout{Date: "2024-01-11", Label: "Run", Duration: 30, Calories: 250})
	require.NoError(t, err)

	workouts, err := b.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, workouts, 2)
	assert.Equal(t, "Leg Day", workouts[0].Label)

	f.mu.Lock()
	doc := f.docs["user_data/"+DocumentID("user-1", storage.KeyWorkouts)]
	f.mu.Unlock()
	require.NotNil(t, doc)
	assert.Equal(t, "user-1", doc["userId"])
	assert.Equal(t, storage.KeyWorkouts, doc["collection"])
}

func TestBackend_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAppwrite(t)
	o := NewOpener(newTestClient(srv, "wellness-test"))

	_, err := o.Open("alice").SaveProfile(ctx, models.UserProfile{Name: "Alice"})
	require.NoError(t, err)

	p, err := o.Open("bob").GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, o.Open("bob").ClearAll(ctx))
	p, err = o.Open("alice").GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Alice", p.Name)
}

func TestBackend_ServerFailureIsRemoteCall(t *testing.T) {
	f, srv := newFakeAppwrite(t)
	f.failDocs = true

	_, err := NewOpener(newTestClient(srv, "wellness-test")).Open("user-1").ListSupplements(context.Background())
	assert.ErrorIs(t, err, storage.ErrRemoteCall)
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	f, srv := newFakeAppwrite(t)
	d := NewDirectory(newTestClient(srv, "wellness-test"))

	acc, err := d.Create(ctx, "kim@example.com", "password123", "Kim")
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", acc.Email)

	_, err = d.Create(ctx, "kim@example.com", "password456", "Kim")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	verified, err := d.Verify(ctx, "kim@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, verified.ID)
	assert.Empty(t, f.sessions)

	_, err = d.Verify(ctx, "kim@example.com", "nope")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = d.Get(ctx, "missing")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAppwrite(t)
	s := NewTokenStore(newTestClient(srv, "wellness-test"))

	require.NoError(t, s.Save(ctx, auth.RefreshToken{
		UserID:    "user-1",
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	tok, err := s.Consume(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", tok.UserID)

	_, err = s.Consume(ctx, "hash-1")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	assert.NoError(t, s.Revoke(ctx, "unknown"))
}

func TestAccountService_OverAppwrite(t *testing.T) {
	ctx := context.Background()
	_, srv := newFakeAppwrite(t)
	client := newTestClient(srv, "wellness-test")

	svc, err := auth.NewAccountService(NewDirectory(client), NewTokenStore(client), &config.Config{
		JWTSecret:        "secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	})
	require.NoError(t, err)

	sess, err := svc.CreateAccount(ctx, "ada@example.com", "password123", "Ada")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, next.User.ID)

	_, err = svc.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestStore_CanceledContextSkipsCall(t *testing.T) {
	f, srv := newFakeAppwrite(t)
	s := NewStore(newTestClient(srv, "wellness-test"), "user-1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, storage.KeyProfile, []byte(`{"name":"Ada"}`))
	assert.ErrorIs(t, err, storage.ErrRemoteCall)
	assert.ErrorIs(t, err, context.Canceled)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Empty(t, f.docs)
}
