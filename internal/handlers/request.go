package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperr"
	"social-service/internal/imagestore"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
)

// RequestHandler manages friend request endpoints.
type RequestHandler struct {
	friendRepo  repositories.FriendRepository
	profileRepo repositories.ProfileRepository
	store       imagestore.Store
	defaultKey  string
	audit       *telemetry.AuditEmitter
}

// NewRequestHandler builds a RequestHandler.
func NewRequestHandler(friendRepo repositories.FriendRepository, profileRepo repositories.ProfileRepository, store imagestore.Store, defaultKey string, audit *telemetry.AuditEmitter) *RequestHandler {
	return &RequestHandler{
		friendRepo:  friendRepo,
		profileRepo: profileRepo,
		store:       store,
		defaultKey:  defaultKey,
		audit:       audit,
	}
}

// GetRequests lists pending friend requests addressed to the acting user,
// newest first.
func (h *RequestHandler) GetRequests(c *gin.Context) {
	userID := actingUserID(c)

	requests, err := h.friendRepo.ListIncomingRequests(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	for i := range requests {
		key := strconv.Itoa(requests[i].RequesterID)
		if requests[i].DefaultPicture {
			key = h.defaultKey
		}
		requests[i].Picture = h.store.URL(key)
	}
	if requests == nil {
		requests = []models.IncomingRequest{}
	}

	c.JSON(http.StatusOK, requests)
}

// PostRequest sends a friend request to the target user, or accepts the
// target's pending request when one already points the other way.
func (h *RequestHandler) PostRequest(c *gin.Context) {
	userID := actingUserID(c)

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
	if targetID == userID {
		fail(c, apperr.SelfTarget("ID must belong to other user."))
		return
	}

	friends, err := h.friendRepo.AreFriends(c.Request.Context(), userID, targetID)
	if err != nil {
		fail(c, err)
		return
	}
	if friends {
		fail(c, apperr.Conflict("Friend already exists."))
		return
	}

	// A request in the opposite direction means both sides want the
	// friendship: accept instead of stacking a second request.
	incoming, err := h.friendRepo.HasPendingRequest(c.Request.Context(), targetID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	if incoming {
		if err := h.friendRepo.AcceptRequest(c.Request.Context(), targetID, userID); err != nil {
			fail(c, err)
			return
		}
		h.audit.Emit(c.Request.Context(), telemetry.EventRequestAccepted, "success", "", requestIDFromContext(c), &userID)
		ok(c)
		return
	}

	outgoing, err := h.friendRepo.HasPendingRequest(c.Request.Context(), userID, targetID)
	if err != nil {
		fail(c, err)
		return
	}
	if outgoing {
		fail(c, apperr.Conflict("Friend request already sent."))
		return
	}

	if err := h.friendRepo.CreateRequest(c.Request.Context(), userID, targetID); err != nil {
		fail(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), telemetry.EventRequestSent, "success", "", requestIDFromContext(c), &userID)
	ok(c)
}
