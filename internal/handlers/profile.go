package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperr"
	"social-service/internal/config"
	"social-service/internal/imagestore"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
)

// ProfileHandler manages profile endpoints.
type ProfileHandler struct {
	profileRepo repositories.ProfileRepository
	friendRepo  repositories.FriendRepository
	store       imagestore.Store
	upload      config.UploadConfig
	defaultKey  string
	audit       *telemetry.AuditEmitter
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(profileRepo repositories.ProfileRepository, friendRepo repositories.FriendRepository, store imagestore.Store, upload config.UploadConfig, defaultKey string, audit *telemetry.AuditEmitter) *ProfileHandler {
	return &ProfileHandler{
		profileRepo: profileRepo,
		friendRepo:  friendRepo,
		store:       store,
		upload:      upload,
		defaultKey:  defaultKey,
		audit:       audit,
	}
}

// UpdateProfile sets the acting user's display name and bio. There is no
// target parameter: users can only edit themselves.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := actingUserID(c)

	var req struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("Invalid request body."))
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	bio := strings.TrimSpace(req.Bio)

	// First failing check wins; the response carries a single message.
	// Limits are in characters, not bytes.
	nameLen := utf8.RuneCountInString(displayName)
	if nameLen < 1 || nameLen > 20 {
		fail(c, apperr.Validation("Display name must be between 1 and 20 characters long."))
		return
	}
	taken, err := h.profileRepo.DisplayNameTaken(c.Request.Context(), displayName, userID)
	if err != nil {
		fail(c, err)
		return
	}
	if taken {
		fail(c, apperr.Conflict("Display name already exists."))
		return
	}
	if utf8.RuneCountInString(bio) > 190 {
		fail(c, apperr.Validation("Bio must not exceed 190 characters."))
		return
	}

	if err := h.profileRepo.UpdateProfile(c.Request.Context(), userID, displayName, bio); err != nil {
		fail(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.EventProfileUpdated, "success", "", requestIDFromContext(c), &userID)
	ok(c)
}

// UpdatePicture swaps the acting user's profile picture for an uploaded
// custom image. The default_picture flag change and the upload share one
// transaction so a failed upload leaves the flag untouched.
func (h *ProfileHandler) UpdatePicture(c *gin.Context) {
	userID := actingUserID(c)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		fail(c, apperr.Validation("Invalid file value."))
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if fileHeader.Size > h.upload.MaxFileSize || !h.upload.Allows(contentType) {
		fail(c, apperr.Validation("Invalid file value."))
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

	key := strconv.Itoa(userID)
	err = h.profileRepo.SetCustomPicture(c.Request.Context(), userID, func(ctx context.Context) error {
		_, uploadErr := h.store.Upload(ctx, key, contentType, data)
		return uploadErr
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.EventPictureUpdated, "success", "", requestIDFromContext(c), &userID)
	ok(c)
}

// GetProfile returns the target user's profile as seen by the viewer.
// Mutual friends are disclosed only to strangers: when the viewer is the
// target or already a friend the field is absent from the response.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewerID := actingUserID(c)

	targetID, err := paramID(c, "userId")
	if err != nil {
		fail(c, err)
		return
	}
	exists, err := h.profileRepo.UserExists(c.Request.Context(), targetID)
	if err != nil {
		fail(c, err)
		return
	}
	if !exists {
		fail(c, apperr.NotFound("User not found."))
		return
	}

	profile, err := h.profileRepo.GetProfile(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			fail(c, apperr.NotFound("User not found."))
			return
		}
		fail(c, err)
		return
	}

	view := models.ProfileView{
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		Picture:     h.pictureURL(targetID, profile.DefaultPicture),
	}

	if viewerID != targetID {
		friends, err := h.friendRepo.AreFriends(c.Request.Context(), viewerID, targetID)
		if err != nil {
			fail(c, err)
			return
		}
		if !friends {
			mutuals, err := h.friendRepo.GetMutuals(c.Request.Context(), viewerID, targetID)
			if err != nil {
				fail(c, err)
				return
			}
			if mutuals == nil {
				mutuals = []models.MutualFriend{}
			}
			view.MutualFriends = &mutuals
		}
	}

	c.JSON(http.StatusOK, view)
}

// DeletePicture reverts the acting user to the shared default picture and
// removes the stored custom image inside the same transaction.
func (h *ProfileHandler) DeletePicture(c *gin.Context) {
	userID := actingUserID(c)

	profile, err := h.profileRepo.GetProfile(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	if profile.DefaultPicture {
		fail(c, apperr.Conflict("Profile picture is already the default."))
		return
	}

	key := strconv.Itoa(userID)
	err = h.profileRepo.ResetPicture(c.Request.Context(), userID, func(ctx context.Context) error {
		return h.store.Delete(ctx, key)
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.EventPictureReset, "success", "", requestIDFromContext(c), &userID)
	ok(c)
}

func (h *ProfileHandler) pictureURL(userID int, defaultPicture bool) string {
	if defaultPicture {
		return h.store.URL(h.defaultKey)
	}
	return h.store.URL(strconv.Itoa(userID))
}
