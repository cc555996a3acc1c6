package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkblast/blazon-api/models"
	"github.com/mkblast/blazon-api/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserRepo is an in-memory UserRepository with the same set semantics
// the Mongo implementation relies on ($addToSet / $pull).
type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
	calls int
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	r.calls++
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindManyByID(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.calls++
	var found []models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.calls++
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (models.User, error) {
	r.calls++
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r *fakeUserRepo) Insert(_ context.Context, user models.User) error {
	r.calls++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ListOthers(_ context.Context, exclude primitive.ObjectID) ([]models.User, error) {
	r.calls++
	var others []models.User
	for id, user := range r.users {
		if id != exclude {
			others = append(others, user)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].Username < others[j].Username })
	return others, nil
}

func (r *fakeUserRepo) UpdateAbout(_ context.Context, id primitive.ObjectID, about string) (models.User, error) {
	r.calls++
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	user.About = about
	r.users[id] = user
	return user, nil
}

func (r *fakeUserRepo) UpdateProfileImage(_ context.Context, id primitive.ObjectID, url string) (models.User, error) {
	r.calls++
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	user.ProfileImage = url
	r.users[id] = user
	return user, nil
}

func (r *fakeUserRepo) Follow(_ context.Context, follower, target primitive.ObjectID) (models.User, error) {
	r.calls++
	user, ok := r.users[follower]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	for _, id := range user.Following {
		if id == target {
			return user, nil
		}
	}
	user.Following = append(user.Following, target)
	r.users[follower] = user
	return user, nil
}

func (r *fakeUserRepo) Unfollow(_ context.Context, follower, target primitive.ObjectID) (models.User, error) {
	r.calls++
	user, ok := r.users[follower]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	kept := user.Following[:0]
	for _, id := range user.Following {
		if id != target {
			kept = append(kept, id)
		}
	}
	user.Following = kept
	r.users[follower] = user
	return user, nil
}

type fakePostRepo struct {
	posts map[primitive.ObjectID]models.Post
	calls int
}

func newFakePostRepo(posts ...models.Post) *fakePostRepo {
	repo := &fakePostRepo{posts: make(map[primitive.ObjectID]models.Post)}
	for _, post := range posts {
		repo.posts[post.ID] = post
	}
	return repo
}

func (r *fakePostRepo) all() []models.Post {
	var posts []models.Post
	for _, post := range r.posts {
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts
}

func (r *fakePostRepo) FindByID(_ context.Context, id primitive.ObjectID) (models.Post, error) {
	r.calls++
	post, ok := r.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	return post, nil
}

func (r *fakePostRepo) Feed(_ context.Context, authors []primitive.ObjectID) ([]models.Post, error) {
	r.calls++
	allowed := make(map[primitive.ObjectID]bool, len(authors))
	for _, id := range authors {
		allowed[id] = true
	}
	var feed []models.Post
	for _, post := range r.all() {
		if post.ReplyTo == nil && allowed[post.Author] {
			feed = append(feed, post)
		}
	}
	return feed, nil
}

func (r *fakePostRepo) AllTopLevel(_ context.Context) ([]models.Post, error) {
	r.calls++
	var posts []models.Post
	for _, post := range r.all() {
		if post.ReplyTo == nil {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (r *fakePostRepo) Replies(_ context.Context, parent primitive.ObjectID) ([]models.Post, error) {
	r.calls++
	var replies []models.Post
	for _, post := range r.all() {
		if post.ReplyTo != nil && *post.ReplyTo == parent {
			replies = append(replies, post)
		}
	}
	return replies, nil
}

func (r *fakePostRepo) ByAuthor(_ context.Context, author primitive.ObjectID, includeReplies bool) ([]models.Post, error) {
	r.calls++
	var posts []models.Post
	for _, post := range r.all() {
		if post.Author != author {
			continue
		}
		if post.ReplyTo != nil && !includeReplies {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *fakePostRepo) Insert(_ context.Context, post models.Post) error {
	r.calls++
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) UpdateBody(_ context.Context, id primitive.ObjectID, body string) (models.Post, error) {
	r.calls++
	post, ok := r.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	post.Body = body
	r.posts[id] = post
	return post, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) (models.Post, error) {
	r.calls++
	post, ok := r.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	delete(r.posts, id)
	return post, nil
}

func (r *fakePostRepo) Like(_ context.Context, id, user primitive.ObjectID) (models.Post, error) {
	r.calls++
	post, ok := r.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	for _, liker := range post.Likes {
		if liker == user {
			return post, nil
		}
	}
	post.Likes = append(post.Likes, user)
	r.posts[id] = post
	return post, nil
}

func (r *fakePostRepo) Unlike(_ context.Context, id, user primitive.ObjectID) (models.Post, error) {
	r.calls++
	post, ok := r.posts[id]
	if !ok {
		return models.Post{}, repository.ErrNotFound
	}
	kept := post.Likes[:0]
	for _, liker := range post.Likes {
		if liker != user {
			kept = append(kept, liker)
		}
	}
	post.Likes = kept
	r.posts[id] = post
	return post, nil
}

// setUser stands in for RequireAuth in handler tests.
func setUser(user models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	}
}

func testUser(username string) models.User {
	return models.User{
		ID:        primitive.NewObjectID(),
		Username:  "@" + username,
		Name:      username,
		Email:     username + "@example.com",
		Password:  "$2a$10$notarealhashnotarealhashnotarealhash",
		Date:      time.Now(),
		Following: []primitive.ObjectID{},
	}
}

func testPost(author primitive.ObjectID, body string, replyTo *primitive.ObjectID) models.Post {
	return models.Post{
		ID:      primitive.NewObjectID(),
		Body:    body,
		Author:  author,
		Likes:   []primitive.ObjectID{},
		ReplyTo: replyTo,
		Date:    time.Now(),
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
