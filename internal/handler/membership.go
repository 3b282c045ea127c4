package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"
)

// membershipService is the membership state machine as seen by the
// handler.
type membershipService interface {
    Join(ctx context.Context, userID, venueID string) error
    Leave(ctx context.Context, userID string) error
}

// MembershipHandler serves the join and leave endpoints. Both routes
// sit behind JWTAuth, so a missing identity means the middleware was
// not applied and is reported as 401.
type MembershipHandler struct {
    Members membershipService
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(members membershipService) *MembershipHandler {
    if members == nil {
        panic("nil membership service passed to NewMembershipHandler")
    }
    return &MembershipHandler{Members: members}
}

// Join handles POST /v1/venues/:id/join. Joining the venue the user
// is already at is a no-op; joining a different venue moves them.
func (h *MembershipHandler) Join(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    venueID := c.Param("id")
    if venueID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    if err := h.Members.Join(c.Request().Context(), userID, venueID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Leave handles POST /v1/leave. Leaving while unattached is a no-op.
func (h *MembershipHandler) Leave(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    if err := h.Members.Leave(c.Request().Context(), userID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.NoContent(http.StatusNoContent)
}
