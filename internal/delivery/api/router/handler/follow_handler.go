package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"socialgraph/internal/delivery/api/response"
	deliverycontext "socialgraph/internal/delivery/context"
	"socialgraph/internal/domain/entity"
	domainerrors "socialgraph/internal/domain/errors"
	"socialgraph/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// FollowHandlerParams holds dependencies for FollowHandler, injected by Fx.
type FollowHandlerParams struct {
	fx.In

	FollowUC usecase.FollowUsecase
	Logger   *slog.Logger
}

// FollowHandler holds dependencies for follow graph handlers.
type FollowHandler struct {
	followUC usecase.FollowUsecase
	logger   *slog.Logger
}

// NewFollowHandler is the constructor for FollowHandler.
func NewFollowHandler(params FollowHandlerParams) *FollowHandler {
	return &FollowHandler{
		followUC: params.FollowUC,
		logger:   params.Logger,
	}
}

// FollowResponse represents a follow edge.
type FollowResponse struct {
	FollowerID int64     `json:"follower_id"`
	FollowedID int64     `json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowingResponse reports whether one user follows another.
type FollowingResponse struct {
	Following bool `json:"following"`
}

// Follow makes the caller follow the user named in the path.
func (h *FollowHandler) Follow(c echo.Context, identity entity.Identity) error {
	followerID, followedID, err := h.callerAndTarget(c, identity)
	if err != nil {
		return err
	}

	follow, err := h.followUC.Follow(c.Request().Context(), followerID, followedID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, &FollowResponse{
		FollowerID: follow.FollowerID,
		FollowedID: follow.FollowedID,
		CreatedAt:  follow.CreatedAt,
	}, "Followed successfully")
}

// Unfollow removes the caller's edge to the user named in the path.
func (h *FollowHandler) Unfollow(c echo.Context, identity entity.Identity) error {
	followerID, followedID, err := h.callerAndTarget(c, identity)
	if err != nil {
		return err
	}

	if err := h.followUC.Unfollow(c.Request().Context(), followerID, followedID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Unfollowed successfully")
}

// FollowerCount returns the number of users following the user named in the path.
func (h *FollowHandler) FollowerCount(c echo.Context) error {
	userID, err := pathUserID(c, "id")
	if err != nil {
		return err
	}

	count, err := h.followUC.FollowerCount(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, count)
}

// FollowingCount returns the number of users the user named in the path follows.
func (h *FollowHandler) FollowingCount(c echo.Context) error {
	userID, err := pathUserID(c, "id")
	if err != nil {
		return err
	}

	count, err := h.followUC.FollowingCount(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, count)
}

// IsFollowing reports whether user {id} follows user {targetId}.
func (h *FollowHandler) IsFollowing(c echo.Context, _ entity.Identity) error {
	followerID, err := pathUserID(c, "id")
	if err != nil {
		return err
	}
	followedID, err := pathUserID(c, "targetId")
	if err != nil {
		return err
	}

	following, err := h.followUC.IsFollowing(c.Request().Context(), followerID, followedID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, &FollowingResponse{Following: following})
}

func (h *FollowHandler) callerAndTarget(c echo.Context, identity entity.Identity) (int64, int64, error) {
	callerID, err := identity.UserID()
	if err != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
			Warn("Token subject is not a user id", slog.String("subject", identity.String()))

		return 0, 0, domainerrors.ErrMalformedSubject
	}

	targetID, err := pathUserID(c, "id")
	if err != nil {
		return 0, 0, err
	}

	return callerID, targetID, nil
}

// pathUserID parses a positive numeric user id from the named path parameter.
func pathUserID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.ErrInvalidUserID
	}

	return id, nil
}
