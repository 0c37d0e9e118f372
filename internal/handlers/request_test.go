package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
)

func setupRequestRouter(handler *RequestHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/requests", handler.GetRequests)
	r.POST("/requests/:userId", handler.PostRequest)
	return r
}

func TestGetRequestsEmpty(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := NewRequestHandler(friendRepo, new(mocks.ProfileRepositoryMock), nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	friendRepo.On("ListIncomingRequests", mock.Anything, 1).Return(([]models.IncomingRequest)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetRequestsResolvesPictures(t *testing.T) {
	friendRepo := new(mocks.FriendRepositoryMock)
	store := new(mocks.StoreMock)
	handler := NewRequestHandler(friendRepo, new(mocks.ProfileRepositoryMock), store, "default-pfp", nil)
	router := setupRequestRouter(handler)

	friendRepo.On("ListIncomingRequests", mock.Anything, 1).Return([]models.IncomingRequest{
		{RequesterID: 3, DisplayName: "al1c3", DefaultPicture: true},
		{RequesterID: 8, DisplayName: "sam1", DefaultPicture: false},
	}, nil).Once()
	store.On("URL", "default-pfp").Return("http://img/default-pfp").Once()
	store.On("URL", "8").Return("http://img/8").Once()

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []struct {
		ID          int    `json:"id"`
		DisplayName string `json:"displayName"`
		Picture     string `json:"picture"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, 3, resp[0].ID)
	assert.Equal(t, "http://img/default-pfp", resp[0].Picture)
	assert.Equal(t, 8, resp[1].ID)
	assert.Equal(t, "http://img/8", resp[1].Picture)
	store.AssertExpectations(t)
}

func TestPostRequestNonNumericParam(t *testing.T) {
	handler := NewRequestHandler(new(mocks.FriendRepositoryMock), new(mocks.ProfileRepositoryMock), nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/requests/asd", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parameter must be a number.", errorMessage(t, rec))
}

func TestPostRequestUnknownUser(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewRequestHandler(new(mocks.FriendRepositoryMock), profileRepo, nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	profileRepo.On("UserExists", mock.Anything, 9).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found.", errorMessage(t, rec))
}

func TestPostRequestToSelf(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	handler := NewRequestHandler(new(mocks.FriendRepositoryMock), profileRepo, nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	profileRepo.On("UserExists", mock.Anything, 1).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID must belong to other user.", errorMessage(t, rec))
}

func TestPostRequestAlreadyFriends(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := NewRequestHandler(friendRepo, profileRepo, nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	profileRepo.On("UserExists", mock.Anything, 2).Return(true, nil).Once()
	friendRepo.On("AreFriends", mock.Anything, 1, 2).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Friend already exists.", errorMessage(t, rec))
}

func TestPostRequestAlreadySent(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := NewRequestHandler(friendRepo, profileRepo, nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	profileRepo.On("UserExists", mock.Anything, 2).Return(true, nil).Once()
	friendRepo.On("AreFriends", mock.Anything, 1, 2).Return(false, nil).Once()
	friendRepo.On("HasPendingRequest", mock.Anything, 2, 1).Return(false, nil).Once()
	friendRepo.On("HasPendingRequest", mock.Anything, 1, 2).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Friend request already sent.", errorMessage(t, rec))
	friendRepo.AssertExpectations(t)
}

func TestPostRequestCreatesPending(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := NewRequestHandler(friendRepo, profileRepo, nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	profileRepo.On("UserExists", mock.Anything, 2).Return(true, nil).Once()
	friendRepo.On("AreFriends", mock.Anything, 1, 2).Return(false, nil).Once()
	friendRepo.On("HasPendingRequest", mock.Anything, 2, 1).Return(false, nil).Once()
	friendRepo.On("HasPendingRequest", mock.Anything, 1, 2).Return(false, nil).Once()
	friendRepo.On("CreateRequest", mock.Anything, 1, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200}`, rec.Body.String())
	friendRepo.AssertExpectations(t)
}

// A pending request in the opposite direction is accepted instead of
// creating a second one.
func TestPostRequestAcceptsOppositePending(t *testing.T) {
	profileRepo := new(mocks.ProfileRepositoryMock)
	friendRepo := new(mocks.FriendRepositoryMock)
	handler := NewRequestHandler(friendRepo, profileRepo, nil, "default-pfp", nil)
	router := setupRequestRouter(handler)

	profileRepo.On("UserExists", mock.Anything, 2).Return(true, nil).Once()
	friendRepo.On("AreFriends", mock.Anything, 1, 2).Return(false, nil).Once()
	friendRepo.On("HasPendingRequest", mock.Anything, 2, 1).Return(true, nil).Once()
	friendRepo.On("AcceptRequest", mock.Anything, 2, 1).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/requests/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200}`, rec.Body.String())
	friendRepo.AssertExpectations(t)
}
