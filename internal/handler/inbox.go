package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/space-rental/internal/model"
    "github.com/iliyamo/space-rental/internal/repository"
    queue_publisher "github.com/iliyamo/space-rental/internal/service"
)

// InboxHandler serves in-app notifications and direct messages for any
// authenticated user.
type InboxHandler struct {
    Notifications *repository.NotificationRepo
    Messages      *repository.MessageRepo
    Users         *repository.UserRepo
    Notifier      *queue_publisher.Notifier
}

// NewInboxHandler constructs an InboxHandler.
func NewInboxHandler(n *repository.NotificationRepo, m *repository.MessageRepo, u *repository.UserRepo, svc *queue_publisher.Notifier) *InboxHandler {
    if n == nil || m == nil || u == nil {
        panic("nil repository passed to NewInboxHandler")
    }
    return &InboxHandler{Notifications: n, Messages: m, Users: u, Notifier: svc}
}

// ListNotifications handles GET /v1/notifications.
func (h *InboxHandler) ListNotifications(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    items, err := h.Notifications.ListByUser(ctx, userID, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    unread, err := h.Notifications.CountUnread(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"notifications": items, "unread": unread})
}

// MarkNotificationRead handles POST /v1/notifications/:id/read.
func (h *InboxHandler) MarkNotificationRead(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Notifications.MarkRead(ctx, id, userID); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}

// MarkAllNotificationsRead handles POST /v1/notifications/read-all.
func (h *InboxHandler) MarkAllNotificationsRead(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    n, err := h.Notifications.MarkAllRead(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"marked": n})
}

type sendMessageReq struct {
    RecipientID uint64  `json:"recipient_id" validate:"required"`
    PropertyID  *uint64 `json:"property_id"`
    Subject     string  `json:"subject" validate:"required,min=1,max=200"`
    Body        string  `json:"body" validate:"required,min=1"`
}

// SendMessage handles POST /v1/messages.
func (h *InboxHandler) SendMessage(c echo.Context) error {
    senderID := currentUserID(c)
    if senderID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req sendMessageReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    if req.RecipientID == senderID {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot message yourself"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if _, err := h.Users.GetByID(ctx, req.RecipientID); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "recipient not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    m := &model.Message{
        SenderID:    senderID,
        RecipientID: req.RecipientID,
        PropertyID:  req.PropertyID,
        Subject:     strings.TrimSpace(req.Subject),
        Body:        req.Body,
    }
    if err := h.Messages.Create(ctx, m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
    }
    if h.Notifier != nil {
        h.Notifier.MessageReceived(ctx, req.RecipientID, m.ID, m.Subject)
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// Inbox handles GET /v1/messages.
func (h *InboxHandler) Inbox(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    items, err := h.Messages.Inbox(ctx, userID, limit)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"messages": items, "count": len(items)})
}

// MarkMessageRead handles POST /v1/messages/:id/read.
func (h *InboxHandler) MarkMessageRead(c echo.Context) error {
    userID := currentUserID(c)
    if userID == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    if err := h.Messages.MarkRead(ctx, id, userID); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "is_read": true})
}
