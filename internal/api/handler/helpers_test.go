package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/pkg/models"
)

var errNotStubbed = errors.New("store method not stubbed")

// fakeStore satisfies every handler store interface. Tests set only the
// fn fields they exercise; anything else errors loudly.
type fakeStore struct {
	listPosts  func(ctx context.Context, filter store.PostFilter) ([]*models.Post, int, error)
	getPost    func(ctx context.Context, ref store.Ref) (*models.Post, error)
	createPost func(ctx context.Context, post *models.Post) error
	updatePost func(ctx context.Context, id uuid.UUID, upd store.PostUpdate) (*models.Post, error)
	deletePost func(ctx context.Context, id uuid.UUID) error

	listPostTags    func(ctx context.Context, postID uuid.UUID) ([]*models.Tag, error)
	replacePostTags func(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	removePostTag   func(ctx context.Context, postID, tagID uuid.UUID) error
	countTagLinks   func(ctx context.Context, tagID uuid.UUID) (int, error)

	listTags  func(ctx context.Context, limit, offset int) ([]*models.Tag, int, error)
	getTag    func(ctx context.Context, ref store.Ref) (*models.Tag, error)
	createTag func(ctx context.Context, tag *models.Tag) error
	updateTag func(ctx context.Context, id uuid.UUID, upd store.TagUpdate) (*models.Tag, error)
	deleteTag func(ctx context.Context, id uuid.UUID) error

	listAuthors        func(ctx context.Context, filter store.AuthorFilter) ([]*models.Author, int, error)
	getAuthor          func(ctx context.Context, ref store.Ref) (*models.Author, error)
	createAuthor       func(ctx context.Context, author *models.Author) error
	updateAuthor       func(ctx context.Context, id uuid.UUID, upd store.AuthorUpdate) (*models.Author, error)
	deleteAuthor       func(ctx context.Context, id uuid.UUID) error
	countPostsByAuthor func(ctx context.Context, authorID uuid.UUID) (int, error)

	listCategories       func(ctx context.Context, limit, offset int) ([]*models.Category, int, error)
	getCategory          func(ctx context.Context, ref store.Ref) (*models.Category, error)
	createCategory       func(ctx context.Context, category *models.Category) error
	updateCategory       func(ctx context.Context, id uuid.UUID, upd store.CategoryUpdate) (*models.Category, error)
	deleteCategory       func(ctx context.Context, id uuid.UUID) error
	countPostsByCategory func(ctx context.Context, categoryID uuid.UUID) (int, error)

	listMedia   func(ctx context.Context, limit, offset int) ([]*models.Media, int, error)
	getMedia    func(ctx context.Context, id uuid.UUID) (*models.Media, error)
	createMedia func(ctx context.Context, media *models.Media) error
	updateMedia func(ctx context.Context, id uuid.UUID, upd store.MediaUpdate) (*models.Media, error)
	deleteMedia func(ctx context.Context, id uuid.UUID) error

	createAPIKey func(ctx context.Context, key *models.APIKey) error
	listAPIKeys  func(ctx context.Context) ([]*models.APIKey, error)
	updateAPIKey func(ctx context.Context, id uuid.UUID, upd store.APIKeyUpdate) (*models.APIKey, error)
	deleteAPIKey func(ctx context.Context, id uuid.UUID) error
	listUsage    func(ctx context.Context, keyID uuid.UUID, limit, offset int) ([]*models.UsageRecord, int, error)
}

func (f *fakeStore) ListPosts(ctx context.Context, filter store.PostFilter) ([]*models.Post, int, error) {
	if f.listPosts == nil {
		return nil, 0, errNotStubbed
	}
	return f.listPosts(ctx, filter)
}

func (f *fakeStore) GetPost(ctx context.Context, ref store.Ref) (*models.Post, error) {
	if f.getPost == nil {
		return nil, errNotStubbed
	}
	return f.getPost(ctx, ref)
}

func (f *fakeStore) CreatePost(ctx context.Context, post *models.Post) error {
	if f.createPost == nil {
		return errNotStubbed
	}
	return f.createPost(ctx, post)
}

func (f *fakeStore) UpdatePost(ctx context.Context, id uuid.UUID, upd store.PostUpdate) (*models.Post, error) {
	if f.updatePost == nil {
		return nil, errNotStubbed
	}
	return f.updatePost(ctx, id, upd)
}

func (f *fakeStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	if f.deletePost == nil {
		return errNotStubbed
	}
	return f.deletePost(ctx, id)
}

func (f *fakeStore) ListPostTags(ctx context.Context, postID uuid.UUID) ([]*models.Tag, error) {
	if f.listPostTags == nil {
		return nil, errNotStubbed
	}
	return f.listPostTags(ctx, postID)
}

func (f *fakeStore) ReplacePostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if f.replacePostTags == nil {
		return errNotStubbed
	}
	return f.replacePostTags(ctx, postID, tagIDs)
}

func (f *fakeStore) RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	if f.removePostTag == nil {
		return errNotStubbed
	}
	return f.removePostTag(ctx, postID, tagID)
}

func (f *fakeStore) CountTagLinks(ctx context.Context, tagID uuid.UUID) (int, error) {
	if f.countTagLinks == nil {
		return 0, errNotStubbed
	}
	return f.countTagLinks(ctx, tagID)
}

func (f *fakeStore) ListTags(ctx context.Context, limit, offset int) ([]*models.Tag, int, error) {
	if f.listTags == nil {
		return nil, 0, errNotStubbed
	}
	return f.listTags(ctx, limit, offset)
}

func (f *fakeStore) GetTag(ctx context.Context, ref store.Ref) (*models.Tag, error) {
	if f.getTag == nil {
		return nil, errNotStubbed
	}
	return f.getTag(ctx, ref)
}

func (f *fakeStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	if f.createTag == nil {
		return errNotStubbed
	}
	return f.createTag(ctx, tag)
}

func (f *fakeStore) UpdateTag(ctx context.Context, id uuid.UUID, upd store.TagUpdate) (*models.Tag, error) {
	if f.updateTag == nil {
		return nil, errNotStubbed
	}
	return f.updateTag(ctx, id, upd)
}

func (f *fakeStore) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if f.deleteTag == nil {
		return errNotStubbed
	}
	return f.deleteTag(ctx, id)
}

func (f *fakeStore) ListAuthors(ctx context.Context, filter store.AuthorFilter) ([]*models.Author, int, error) {
	if f.listAuthors == nil {
		return nil, 0, errNotStubbed
	}
	return f.listAuthors(ctx, filter)
}

func (f *fakeStore) GetAuthor(ctx context.Context, ref store.Ref) (*models.Author, error) {
	if f.getAuthor == nil {
		return nil, errNotStubbed
	}
	return f.getAuthor(ctx, ref)
}

func (f *fakeStore) CreateAuthor(ctx context.Context, author *models.Author) error {
	if f.createAuthor == nil {
		return errNotStubbed
	}
	return f.createAuthor(ctx, author)
}

func (f *fakeStore) UpdateAuthor(ctx context.Context, id uuid.UUID, upd store.AuthorUpdate) (*models.Author, error) {
	if f.updateAuthor == nil {
		return nil, errNotStubbed
	}
	return f.updateAuthor(ctx, id, upd)
}

func (f *fakeStore) DeleteAuthor(ctx context.Context, id uuid.UUID) error {
	if f.deleteAuthor == nil {
		return errNotStubbed
	}
	return f.deleteAuthor(ctx, id)
}

func (f *fakeStore) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int, error) {
	if f.countPostsByAuthor == nil {
		return 0, errNotStubbed
	}
	return f.countPostsByAuthor(ctx, authorID)
}

func (f *fakeStore) ListCategories(ctx context.Context, limit, offset int) ([]*models.Category, int, error) {
	if f.listCategories == nil {
		return nil, 0, errNotStubbed
	}
	return f.listCategories(ctx, limit, offset)
}

func (f *fakeStore) GetCategory(ctx context.Context, ref store.Ref) (*models.Category, error) {
	if f.getCategory == nil {
		return nil, errNotStubbed
	}
	return f.getCategory(ctx, ref)
}

func (f *fakeStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if f.createCategory == nil {
		return errNotStubbed
	}
	return f.createCategory(ctx, category)
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id uuid.UUID, upd store.CategoryUpdate) (*models.Category, error) {
	if f.updateCategory == nil {
		return nil, errNotStubbed
	}
	return f.updateCategory(ctx, id, upd)
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if f.deleteCategory == nil {
		return errNotStubbed
	}
	return f.deleteCategory(ctx, id)
}

func (f *fakeStore) CountPostsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	if f.countPostsByCategory == nil {
		return 0, errNotStubbed
	}
	return f.countPostsByCategory(ctx, categoryID)
}

func (f *fakeStore) ListMedia(ctx context.Context, limit, offset int) ([]*models.Media, int, error) {
	if f.listMedia == nil {
		return nil, 0, errNotStubbed
	}
	return f.listMedia(ctx, limit, offset)
}

func (f *fakeStore) GetMedia(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	if f.getMedia == nil {
		return nil, errNotStubbed
	}
	return f.getMedia(ctx, id)
}

func (f *fakeStore) CreateMedia(ctx context.Context, media *models.Media) error {
	if f.createMedia == nil {
		return errNotStubbed
	}
	return f.createMedia(ctx, media)
}

func (f *fakeStore) UpdateMedia(ctx context.Context, id uuid.UUID, upd store.MediaUpdate) (*models.Media, error) {
	if f.updateMedia == nil {
		return nil, errNotStubbed
	}
	return f.updateMedia(ctx, id, upd)
}

func (f *fakeStore) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	if f.deleteMedia == nil {
		return errNotStubbed
	}
	return f.deleteMedia(ctx, id)
}

func (f *fakeStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	if f.createAPIKey == nil {
		return errNotStubbed
	}
	return f.createAPIKey(ctx, key)
}

func (f *fakeStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	if f.listAPIKeys == nil {
		return nil, errNotStubbed
	}
	return f.listAPIKeys(ctx)
}

func (f *fakeStore) UpdateAPIKey(ctx context.Context, id uuid.UUID, upd store.APIKeyUpdate) (*models.APIKey, error) {
	if f.updateAPIKey == nil {
		return nil, errNotStubbed
	}
	return f.updateAPIKey(ctx, id, upd)
}

func (f *fakeStore) DeleteAPIKey(ctx context.Context, id uuid.UUID) error {
	if f.deleteAPIKey == nil {
		return errNotStubbed
	}
	return f.deleteAPIKey(ctx, id)
}

func (f *fakeStore) ListUsage(ctx context.Context, keyID uuid.UUID, limit, offset int) ([]*models.UsageRecord, int, error) {
	if f.listUsage == nil {
		return nil, 0, errNotStubbed
	}
	return f.listUsage(ctx, keyID, limit, offset)
}

// --- request helpers ---

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	body := decodeJSON(t, rec)
	if body["message"] != message {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
