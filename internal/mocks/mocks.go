package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
)

type ProfileRepositoryMock struct {
	mock.Mock
}

func (m *ProfileRepositoryMock) GetProfile(ctx context.Context, userID int) (models.Profile, error) {
	args := m.Called(ctx, userID)
	var profile models.Profile
	if val := args.Get(0); val != nil {
		profile = val.(models.Profile)
	}
	return profile, args.Error(1)
}

func (m *ProfileRepositoryMock) UserExists(ctx context.Context, userID int) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileRepositoryMock) DisplayNameTaken(ctx context.Context, displayName string, excludeUserID int) (bool, error) {
	args := m.Called(ctx, displayName, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *ProfileRepositoryMock) UpdateProfile(ctx context.Context, userID int, displayName, bio string) error {
	args := m.Called(ctx, userID, displayName, bio)
	return args.Error(0)
}

// SetCustomPicture runs the upload callback unless the mock is told to fail
// first, mirroring the real ordering: row update, then upload, both or
// neither.
func (m *ProfileRepositoryMock) SetCustomPicture(ctx context.Context, userID int, upload func(context.Context) error) error {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return err
	}
	return upload(ctx)
}

func (m *ProfileRepositoryMock) ResetPicture(ctx context.Context, userID int, remove func(context.Context) error) error {
	args := m.Called(ctx, userID)
	if err := args.Error(0); err != nil {
		return err
	}
	return remove(ctx)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) AreFriends(ctx context.Context, userID, otherID int) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

func (m *FriendRepositoryMock) GetMutuals(ctx context.Context, userID, otherID int) ([]models.MutualFriend, error) {
	args := m.Called(ctx, userID, otherID)
	var mutuals []models.MutualFriend
	if val := args.Get(0); val != nil {
		mutuals = val.([]models.MutualFriend)
	}
	return mutuals, args.Error(1)
}

func (m *FriendRepositoryMock) HasPendingRequest(ctx context.Context, fromID, toID int) (bool, error) {
	args := m.Called(ctx, fromID, toID)
	return args.Bool(0), args.Error(1)
}

func (m *FriendRepositoryMock) CreateRequest(ctx context.Context, fromID, toID int) error {
	args := m.Called(ctx, fromID, toID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) AcceptRequest(ctx context.Context, fromID, toID int) error {
	args := m.Called(ctx, fromID, toID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListIncomingRequests(ctx context.Context, userID int) ([]models.IncomingRequest, error) {
	args := m.Called(ctx, userID)
	var requests []models.IncomingRequest
	if val := args.Get(0); val != nil {
		requests = val.([]models.IncomingRequest)
	}
	return requests, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, fromID, toID int, content, msgType string) (models.Message, error) {
	args := m.Called(ctx, fromID, toID, content, msgType)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

// CreateImageMessage runs the upload callback first, like the real
// implementation does inside its transaction.
func (m *MessageRepositoryMock) CreateImageMessage(ctx context.Context, fromID, toID int, upload func(context.Context) (string, error)) (models.Message, error) {
	url, err := upload(ctx)
	if err != nil {
		return models.Message{}, err
	}
	args := m.Called(ctx, fromID, toID, url)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetConversation(ctx context.Context, userID, otherID int) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) LatestPerCounterpart(ctx context.Context, userID int) ([]models.LatestMessage, error) {
	args := m.Called(ctx, userID)
	var latest []models.LatestMessage
	if val := args.Get(0); val != nil {
		latest = val.([]models.LatestMessage)
	}
	return latest, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

// SoftDelete runs the asset-removal callback when the row transition
// succeeds, matching the real transaction ordering.
func (m *MessageRepositoryMock) SoftDelete(ctx context.Context, messageID int, removeAsset func(context.Context) error) error {
	args := m.Called(ctx, messageID)
	if err := args.Error(0); err != nil {
		return err
	}
	if removeAsset != nil {
		return removeAsset(ctx)
	}
	return nil
}

// StoreMock fakes the image host.
type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *StoreMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *StoreMock) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
