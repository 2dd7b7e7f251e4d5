package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"post-board/pkg/logger"
	"post-board/services/post/internal/entity"
	"post-board/services/post/internal/repo/persistent"
	"post-board/services/post/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) AddPost(ctx context.Context, author, password, title, content string) (*entity.Post, error) {
	args := m.Called(ctx, author, password, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetPosts(ctx context.Context, beforeLastID *uint, keyword string) (*entity.PostPage, error) {
	args := m.Called(ctx, beforeLastID, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostPage), args.Error(1)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, id uint) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, id uint, password, author, title, content string) error {
	args := m.Called(ctx, id, password, author, title, content)
	return args.Error(0)
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, id uint, password string) error {
	args := m.Called(ctx, id, password)
	return args.Error(0)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

func setupTestRouter(uc usecase.PostUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewPostHandler(uc, logger.NewWithWriter(io.Discard, io.Discard))
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func setupMemoryRouter() *gin.Engine {
	uc := usecase.NewPostUseCase(persistent.NewMemoryPostRepository(), bcrypt.MinCost, logger.NewWithWriter(io.Discard, io.Discard))
	return setupTestRouter(uc)
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) []string {
	var response ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.Message
}

func validAddBody() map[string]string {
	return map[string]string{
		"author":   "루비",
		"password": "1234qwer",
		"title":    "게시글 등록 테스트",
		"content":  "게시글 등록 테스트 본문",
	}
}

func TestAddPost_Created(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	mockUseCase.On("AddPost", mock.Anything, "루비", "1234qwer", "게시글 등록 테스트", "게시글 등록 테스트 본문").
		Return(&entity.Post{ID: 1}, nil)

	w := doJSON(router, "POST", "/api/posts", validAddBody())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())
	mockUseCase.AssertExpectations(t)
}

func TestAddPost_ShortPassword(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	body := validAddBody()
	body["password"] = "qwer1"
	w := doJSON(router, "POST", "/api/posts", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgPassword}, decodeValidation(t, w))
	mockUseCase.AssertNotCalled(t, "AddPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddPost_AllViolations(t *testing.T) {
	router := setupTestRouter(new(MockPostUseCase))

	w := doJSON(router, "POST", "/api/posts", map[string]string{"author": "", "password": "qwer", "title": "", "content": ""})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	messages := decodeValidation(t, w)
	assert.Len(t, messages, 4)
	assert.Contains(t, messages, MsgAuthorNotEmpty)
	assert.Contains(t, messages, MsgPassword)
	assert.Contains(t, messages, MsgTitleMinLength)
	assert.Contains(t, messages, MsgContentMinLength)
}

func TestAddPost_MalformedBody(t *testing.T) {
	router := setupTestRouter(new(MockPostUseCase))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/posts", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgInvalidBody}, decodeValidation(t, w))
}

func TestAddPost_InternalError(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	mockUseCase.On("AddPost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	w := doJSON(router, "POST", "/api/posts", validAddBody())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetPosts_PassesCursorAndKeyword(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	cursor := uint(7)
	page := &entity.PostPage{
		BeforeLastID: &cursor,
		Posts:        []*entity.Post{{ID: 9, Author: "루비", PasswordHash: "secret-hash", Title: "제목", Content: "본문"}, {ID: 7}},
	}
	mockUseCase.On("GetPosts", mock.Anything, mock.MatchedBy(func(id *uint) bool {
		return id != nil && *id == 10
	}), "foo bar").Return(page, nil)

	w := doJSON(router, "GET", "/api/posts?beforeLastId=10&keyword=foo%20bar", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")

	var response struct {
		BeforeLastID *uint                    `json:"beforeLastId"`
		Posts        []map[string]interface{} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, uint(7), *response.BeforeLastID)
	require.Len(t, response.Posts, 2)
	assert.ElementsMatch(t, []string{"id", "author", "title", "content", "createdAt"}, keys(response.Posts[0]))
	mockUseCase.AssertExpectations(t)
}

func TestGetPosts_InvalidCursor(t *testing.T) {
	router := setupTestRouter(new(MockPostUseCase))

	for _, cursor := range []string{"0", "-1", "abc"} {
		w := doJSON(router, "GET", "/api/posts?beforeLastId="+cursor, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, cursor)
		assert.Equal(t, []string{MsgInvalidID}, decodeValidation(t, w))
	}
}

func TestGetPost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	mockUseCase.On("GetPost", mock.Anything, uint(10)).Return(nil, usecase.ErrPostNotFound)

	w := doJSON(router, "GET", "/api/posts/10", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, MsgPostNotFound, response.Error)
}

func TestGetPost_InvalidID(t *testing.T) {
	router := setupTestRouter(new(MockPostUseCase))

	w := doJSON(router, "GET", "/api/posts/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgInvalidID}, decodeValidation(t, w))
}

func TestGetPost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mockUseCase.On("GetPost", mock.Anything, uint(3)).Return(&entity.Post{
		ID: 3, Author: "루비", PasswordHash: "secret-hash", Title: "제목", Content: "본문", CreatedAt: createdAt,
	}, nil)

	w := doJSON(router, "GET", "/api/posts/3", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"post":{"id":3,"author":"루비","title":"제목","content":"본문","createdAt":"2024-01-02T03:04:05Z"}}`, w.Body.String())
}

func TestUpdatePost_PasswordMismatch(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	mockUseCase.On("UpdatePost", mock.Anything, uint(3), "wrong1", "루비", "제목", "본문").Return(usecase.ErrPasswordMismatch)

	w := doJSON(router, "PUT", "/api/posts/3", map[string]string{"author": "루비", "password": "wrong1", "title": "제목", "content": "본문"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, MsgPasswordMismatch, response.Error)
}

func TestUpdatePost_NoContent(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	mockUseCase.On("UpdatePost", mock.Anything, uint(3), "1234qwer", "루비", "제목", "본문").Return(nil)

	w := doJSON(router, "PUT", "/api/posts/3", map[string]string{"author": "루비", "password": "1234qwer", "title": "제목", "content": "본문"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestDeletePost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := setupTestRouter(mockUseCase)

	mockUseCase.On("DeletePost", mock.Anything, uint(3), "1234qwer").Return(usecase.ErrPostNotFound)

	w := doJSON(router, "DELETE", "/api/posts/3", map[string]string{"password": "1234qwer"})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePost_MissingBody(t *testing.T) {
	router := setupTestRouter(new(MockPostUseCase))

	w := doJSON(router, "DELETE", "/api/posts/3", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgPasswordRequired}, decodeValidation(t, w))
}

// The tests below exercise the full stack on the in-memory store.

func TestPostsEndToEnd_Pagination(t *testing.T) {
	router := setupMemoryRouter()

	for i := 0; i < 34; i++ {
		body := validAddBody()
		body["title"] = fmt.Sprintf("게시글%d", i)
		require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/posts", body).Code)
	}

	w := doJSON(router, "GET", "/api/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		BeforeLastID *uint `json:"beforeLastId"`
		Posts        []struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Posts, 20)
	assert.Equal(t, "게시글33", page.Posts[0].Title)
	for i := 1; i < len(page.Posts); i++ {
		assert.Greater(t, page.Posts[i-1].ID, page.Posts[i].ID)
	}
	require.NotNil(t, page.BeforeLastID)
	assert.Equal(t, page.Posts[19].ID, *page.BeforeLastID)

	w = doJSON(router, "GET", fmt.Sprintf("/api/posts?beforeLastId=%d", *page.BeforeLastID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Posts, 14)
}

func TestPostsEndToEnd_UpdateWithEmptyTitle(t *testing.T) {
	router := setupMemoryRouter()
	require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/posts", validAddBody()).Code)

	w := doJSON(router, "PUT", "/api/posts/1", map[string]string{
		"author":   "루비",
		"password": "1234qwer",
		"title":    "",
		"content":  "수정된 본문",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{MsgTitleMinLength}, decodeValidation(t, w))
}

func TestPostsEndToEnd_Lifecycle(t *testing.T) {
	router := setupMemoryRouter()
	require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/posts", validAddBody()).Code)

	update := map[string]string{"author": "다른사람", "password": "qwer1234", "title": "바뀐 제목", "content": "바뀐 본문"}
	assert.Equal(t, http.StatusForbidden, doJSON(router, "PUT", "/api/posts/1", update).Code)

	update["password"] = "1234qwer"
	assert.Equal(t, http.StatusNoContent, doJSON(router, "PUT", "/api/posts/1", update).Code)

	w := doJSON(router, "GET", "/api/posts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Post map[string]interface{} `json:"post"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "다른사람", detail.Post["author"])
	assert.Equal(t, "바뀐 제목", detail.Post["title"])

	assert.Equal(t, http.StatusForbidden, doJSON(router, "DELETE", "/api/posts/1", map[string]string{"password": "wrong12"}).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(router, "DELETE", "/api/posts/1", map[string]string{"password": "1234qwer"}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, "GET", "/api/posts/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, "DELETE", "/api/posts/1", map[string]string{"password": "1234qwer"}).Code)
}

func TestPostsEndToEnd_Keyword(t *testing.T) {
	router := setupMemoryRouter()

	for _, post := range []struct{ title, content string }{
		{"foo 제목", "본문입니다"},
		{"제목입니다", "bar 본문"},
		{"관계없는 제목", "관계없는 본문"},
	} {
		body := validAddBody()
		body["title"] = post.title
		body["content"] = post.content
		require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/posts", body).Code)
	}

	w := doJSON(router, "GET", "/api/posts?keyword=foo+bar", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page entity.PostPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Posts, 2)
	assert.Equal(t, uint(2), page.Posts[0].ID)
	assert.Equal(t, uint(1), page.Posts[1].ID)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
