package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parley/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCommentApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/posts/:id/comments", s.actorRequired, s.CreateComment)
	app.Get("/posts/:id/comments", s.GetCommentTree)
	app.Post("/comments/:id/replies", s.actorRequired, s.CreateReply)
	app.Get("/comments/:id", s.GetComment)
	app.Put("/comments/:id", s.actorRequired, s.UpdateComment)
	app.Delete("/comments/:id", s.actorRequired, s.DeleteComment)
	return app
}

func TestCreateComment(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(users *MockUserRepository, posts *MockPostRepository, comments *MockCommentRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"content":"nice post"}`,
			mockSetup: func(users *MockUserRepository, posts *MockPostRepository, comments *MockCommentRepository) {
				users.On("Exists", mock.Anything, uint(1)).Return(true, nil)
				posts.On("Exists", mock.Anything, uint(2)).Return(true, nil)
				comments.On("HasTopLevel", mock.Anything, uint(1), uint(2)).Return(false, nil)
				comments.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Second comment on same post",
			body: `{"content":"again"}`,
			mockSetup: func(users *MockUserRepository, posts *MockPostRepository, comments *MockCommentRepository) {
				users.On("Exists", mock.Anything, uint(1)).Return(true, nil)
				posts.On("Exists", mock.Anything, uint(2)).Return(true, nil)
				comments.On("HasTopLevel", mock.Anything, uint(1), uint(2)).Return(true, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Unknown post",
			body: `{"content":"hello"}`,
			mockSetup: func(users *MockUserRepository, posts *MockPostRepository, comments *MockCommentRepository) {
				users.On("Exists", mock.Anything, uint(1)).Return(true, nil)
				posts.On("Exists", mock.Anything, uint(2)).Return(false, nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Empty content",
			body:           `{"content":"  "}`,
			mockSetup:      func(users *MockUserRepository, posts *MockPostRepository, comments *MockCommentRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			posts := new(MockPostRepository)
			comments := new(MockCommentRepository)
			tt.mockSetup(users, posts, comments)
			s := newTestServer(testRepos{users: users, posts: posts, comments: comments})
			app := newCommentApp(s)

			req := httptest.NewRequest(http.MethodPost, "/posts/2/comments", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", "1")
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestCreateReply(t *testing.T) {
	t.Run("reply inherits the parent's post", func(t *testing.T) {
		users := new(MockUserRepository)
		users.On("Exists", mock.Anything, uint(1)).Return(true, nil)

		comments := new(MockCommentRepository)
		comments.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Comment{ID: 3, UserID: 9, PostID: 4}, nil)
		comments.On("HasReply", mock.Anything, uint(1), uint(3)).Return(false, nil)
		comments.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).
			Run(func(args mock.Arguments) {
				reply := args.Get(1).(*models.Comment)
				assert.Equal(t, uint(4), reply.PostID)
				require.NotNil(t, reply.ParentCommentID)
				assert.Equal(t, uint(3), *reply.ParentCommentID)
			}).Return(nil)

		s := newTestServer(testRepos{users: users, comments: comments})
		app := newCommentApp(s)

		req := httptest.NewRequest(http.MethodPost, "/comments/3/replies",
			strings.NewReader(`{"content":"re"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		comments.AssertExpectations(t)
	})

	t.Run("replying to a reply is rejected", func(t *testing.T) {
		parent := uint(2)
		users := new(MockUserRepository)
		users.On("Exists", mock.Anything, uint(1)).Return(true, nil)

		comments := new(MockCommentRepository)
		comments.On("GetByID", mock.Anything, uint(3)).
			Return(&models.Comment{ID: 3, PostID: 4, ParentCommentID: &parent}, nil)

		s := newTestServer(testRepos{users: users, comments: comments})
		app := newCommentApp(s)

		req := httptest.NewRequest(http.MethodPost, "/comments/3/replies",
			strings.NewReader(`{"content":"re"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetCommentTree(t *testing.T) {
	posts := new(MockPostRepository)
	posts.On("Exists", mock.Anything, uint(2)).Return(true, nil)

	comments := new(MockCommentRepository)
	comments.On("FetchThreads", mock.Anything, uint(2)).
		Return([]models.CommentThread{
			{ID: 1, Content: "top", Replies: []models.CommentReply{{ID: 2, Content: "re"}}},
		}, nil)

	s := newTestServer(testRepos{posts: posts, comments: comments})
	app := newCommentApp(s)

	req := httptest.NewRequest(http.MethodGet, "/posts/2/comments", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var threads []models.CommentThread
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&threads))
	require.Len(t, threads, 1)
	assert.Len(t, threads[0].Replies, 1)
}

func TestDeleteComment(t *testing.T) {
	t.Run("owner delete reports the cascade count", func(t *testing.T) {
		comments := new(MockCommentRepository)
		comments.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Comment{ID: 5, UserID: 1}, nil)
		comments.On("DeleteTree", mock.Anything, uint(5)).Return(3, nil)

		s := newTestServer(testRepos{comments: comments})
		app := newCommentApp(s)

		req := httptest.NewRequest(http.MethodDelete, "/comments/5", nil)
		req.Header.Set("X-User-ID", "1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 3, body["deleted"])
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		comments := new(MockCommentRepository)
		comments.On("GetByID", mock.Anything, uint(5)).
			Return(&models.Comment{ID: 5, UserID: 1}, nil)

		s := newTestServer(testRepos{comments: comments})
		app := newCommentApp(s)

		req := httptest.NewRequest(http.MethodDelete, "/comments/5", nil)
		req.Header.Set("X-User-ID", "2")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		comments.AssertNotCalled(t, "DeleteTree", mock.Anything, mock.Anything)
	})
}
