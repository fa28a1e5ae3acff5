package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/models"
	"github.com/clubhq/clubhub/backend/internal/store"
	"github.com/clubhq/clubhub/backend/internal/utils"
)

const postsTestCookie = "session"

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-handler-testing")
}

type fakePostDocs struct {
	posts map[string]*models.Post
}

func newFakePostDocs(posts ...*models.Post) *fakePostDocs {
	f := &fakePostDocs{posts: map[string]*models.Post{}}
	for _, p := range posts {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.posts[p.ID.Hex()] = p
	}
	return f
}

func (f *fakePostDocs) List(_ context.Context, _ string) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostDocs) Get(_ context.Context, id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakePostDocs) Insert(_ context.Context, p *models.Post) (string, error) {
	p.ID = primitive.NewObjectID()
	f.posts[p.ID.Hex()] = p
	return p.ID.Hex(), nil
}

func (f *fakePostDocs) Delete(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostDocs) Like(_ context.Context, id, email string) error {
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	for _, e := range p.LikedBy {
		if e == email {
			return store.ErrStateConflict
		}
	}
	p.LikedBy = append(p.LikedBy, email)
	p.Likes++
	return nil
}

func (f *fakePostDocs) AddComment(_ context.Context, id string, c models.Comment) error {
	p, ok := f.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Comments = append(p.Comments, c)
	return nil
}

func newPostRouter(docs *fakePostDocs) *gin.Engine {
	h := NewPostHandler(docs)
	router := gin.New()
	router.Use(middleware.Identify(postsTestCookie))
	authed := router.Group("/api", middleware.AuthRequired())
	authed.PUT("/posts/:id/like", h.Like)
	authed.POST("/posts/:id/comments", h.Comment)
	return router
}

func likeRequest(t *testing.T, router *gin.Engine, id string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := utils.GenerateSessionToken("uid-1", "bob@club.org", "Bob", "member", false, 1)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/posts/"+id+"/like", nil)
	req.AddCookie(&http.Cookie{Name: postsTestCookie, Value: token})
	router.ServeHTTP(w, req)
	return w
}

func TestLike_CountsOncePerAccount(t *testing.T) {
	post := &models.Post{Title: "t", Content: "c", Author: "Alice"}
	docs := newFakePostDocs(post)
	router := newPostRouter(docs)

	w := likeRequest(t, router, post.ID.Hex())
	if w.Code != http.StatusOK {
		t.Fatalf("first like: expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if post.Likes != 1 {
		t.Errorf("likes = %d, want 1", post.Likes)
	}

	w = likeRequest(t, router, post.ID.Hex())
	if w.Code != http.StatusConflict {
		t.Errorf("second like: expected status %d, got %d", http.StatusConflict, w.Code)
	}
	if post.Likes != 1 {
		t.Errorf("likes after duplicate = %d, want 1", post.Likes)
	}
}

func TestLike_UnknownPost(t *testing.T) {
	router := newPostRouter(newFakePostDocs())

	w := likeRequest(t, router, primitive.NewObjectID().Hex())
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
	}
}
