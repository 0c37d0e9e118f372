package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-service/internal/apperr"
	"social-service/internal/config"
	"social-service/internal/imagestore"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
)

// MessageHandler manages direct-message endpoints.
type MessageHandler struct {
	messageRepo repositories.MessageRepository
	friendRepo  repositories.FriendRepository
	profileRepo repositories.ProfileRepository
	store       imagestore.Store
	upload      config.UploadConfig
	defaultKey  string
	audit       *telemetry.AuditEmitter
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, friendRepo repositories.FriendRepository, profileRepo repositories.ProfileRepository, store imagestore.Store, upload config.UploadConfig, defaultKey string, audit *telemetry.AuditEmitter) *MessageHandler {
	return &MessageHandler{
		messageRepo: messageRepo,
		friendRepo:  friendRepo,
		profileRepo: profileRepo,
		store:       store,
		upload:      upload,
		defaultKey:  defaultKey,
		audit:       audit,
	}
}

// SendMessage records a text or image message to a friend. Image payloads
// are uploaded under a fresh message-asset key and the resulting URL becomes
// the message content.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID := actingUserID(c)

	targetID, err := h.counterpartID(c)
	if err != nil {
		fail(c, err)
		return
	}

	friends, err := h.friendRepo.AreFriends(c.Request.Context(), userID, targetID)
	if err != nil {
		fail(c, err)
		return
	}
	if !friends {
		fail(c, apperr.FriendNotFound("Friend not found."))
		return
	}

	switch c.PostForm("type") {
	case "text":
		content := strings.TrimSpace(c.PostForm("content"))
		if content == "" {
			fail(c, apperr.Validation("Content must be at least 1 character long."))
			return
		}
		if _, err := h.messageRepo.CreateMessage(c.Request.Context(), userID, targetID, content, models.TypeText); err != nil {
			fail(c, err)
			return
		}
	case "image":
		fileHeader, err := c.FormFile("image")
		if err != nil {
			fail(c, apperr.Validation("Image must be provided."))
			return
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if fileHeader.Size > h.upload.MaxFileSize || !h.upload.Allows(contentType) {
			fail(c, apperr.Validation("Image must be provided."))
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			fail(c, err)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			fail(c, err)
			return
		}

		key := "message-" + uuid.NewString()
		_, err = h.messageRepo.CreateImageMessage(c.Request.Context(), userID, targetID, func(ctx context.Context) (string, error) {
			return h.store.Upload(ctx, key, contentType, data)
		})
		if err != nil {
			fail(c, err)
			return
		}
	default:
		fail(c, apperr.Validation("Unknown message type."))
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.EventMessageSent, "success", "", requestIDFromContext(c), &userID)
	ok(c)
}

// GetConversation returns every message exchanged with the counterpart in
// send order. The counterpart's picture URL is resolved once for the whole
// conversation, never per message.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID := actingUserID(c)

	otherID, err := h.counterpartID(c)
	if err != nil {
		fail(c, err)
		return
	}

	msgs, err := h.messageRepo.GetConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		fail(c, err)
		return
	}
	if len(msgs) == 0 {
		fail(c, apperr.NotFound("No messages found."))
		return
	}

	otherProfile, err := h.profileRepo.GetProfile(c.Request.Context(), otherID)
	if err != nil {
		fail(c, err)
		return
	}
	otherPicture := h.pictureURL(otherID, otherProfile.DefaultPicture)

	type messageResponse struct {
		models.MessageView
		Picture string `json:"picture,omitempty"`
	}

	resp := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		view := m.View(userID)
		entry := messageResponse{MessageView: view}
		if !view.Me {
			entry.Picture = otherPicture
		}
		resp = append(resp, entry)
	}

	c.JSON(http.StatusOK, resp)
}

// ListConversations returns one summary per counterpart carrying only the
// most recent message, newest thread first. One picture URL lookup happens
// per counterpart.
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID := actingUserID(c)

	latest, err := h.messageRepo.LatestPerCounterpart(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	summaries := make([]models.ConversationSummary, 0, len(latest))
	for _, entry := range latest {
		summaries = append(summaries, models.ConversationSummary{
			ID:          entry.CounterpartID,
			DisplayName: entry.DisplayName,
			Picture:     h.pictureURL(entry.CounterpartID, entry.DefaultPicture),
			Message:     entry.Message.View(userID),
		})
	}

	c.JSON(http.StatusOK, summaries)
}

// DeleteMessage soft deletes a message: content cleared, type set to
// DELETED, image asset (if any) removed inside the same transaction. The
// transition is one-way. Any authenticated user who knows the id may delete;
// the contract does not gate this on sender or receiver.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID := actingUserID(c)

	messageID, err := paramID(c, "messageId")
	if err != nil {
		fail(c, err)
		return
	}

	msg, err := h.messageRepo.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			fail(c, apperr.NotFound("Message not found."))
			return
		}
		fail(c, err)
		return
	}
	if msg.Type == models.TypeDeleted {
		fail(c, apperr.NotFound("Message not found."))
		return
	}

	var removeAsset func(context.Context) error
	if msg.Type == models.TypeImage {
		key := imagestore.KeyFromURL(msg.Content)
		removeAsset = func(ctx context.Context) error {
			return h.store.Delete(ctx, key)
		}
	}

	if err := h.messageRepo.SoftDelete(c.Request.Context(), messageID, removeAsset); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			fail(c, apperr.NotFound("Message not found."))
			return
		}
		fail(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.EventMessageDeleted, "success", "", requestIDFromContext(c), &userID)
	ok(c)
}

// counterpartID validates the :userId parameter shared by the send and
// conversation endpoints: numeric, existing, and not the acting user.
func (h *MessageHandler) counterpartID(c *gin.Context) (int, error) {
	userID := actingUserID(c)

	targetID, err := paramID(c, "userId")
	if err != nil {
		return 0, err
	}
	exists, err := h.profileRepo.UserExists(c.Request.Context(), targetID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperr.NotFound("User not found.")
	}
	if targetID == userID {
		return 0, apperr.SelfTarget("ID must belong to other user.")
	}
	return targetID, nil
}

func (h *MessageHandler) pictureURL(userID int, defaultPicture bool) string {
	if defaultPicture {
		return h.store.URL(h.defaultKey)
	}
	return h.store.URL(strconv.Itoa(userID))
}
