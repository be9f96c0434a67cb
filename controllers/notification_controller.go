package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

const contextNotificationKey = "notification_intent"

// notificationIntent is what a like or comment handler leaves for the notification stage.
type notificationIntent struct {
	Recipient string
	PostID    string
	Sender    string
	Type      models.NotificationType
	TypeID    string
}

func setNotification(ctx *gin.Context, n notificationIntent) {
	ctx.Set(contextNotificationKey, n)
}

func notificationFrom(ctx *gin.Context) (notificationIntent, bool) {
	v, ok := ctx.Get(contextNotificationKey)
	if !ok {
		return notificationIntent{}, false
	}
	n, ok := v.(notificationIntent)
	return n, ok
}

// NotificationController lists notifications and runs the chained notification stages.
type NotificationController struct {
	base
}

func NewNotificationController(d Deps) *NotificationController {
	return &NotificationController{base: newBase(d)}
}

// List returns the caller's notifications, newest first.
func (n *NotificationController) List(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	list, err := n.svc(ctx).Notifications.ListForRecipient(ctx.Request.Context(), user.Handle)
	if err != nil {
		storeFailure(ctx, 50060, "failed to list notifications", err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	ctx.JSON(http.StatusOK, list)
}

// MarkRead flags one of the caller's notifications as read.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req struct {
		NotificationID string `json:"notificationId"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.NotificationID) == "" {
		utils.ValidationError(ctx, 40060, map[string]string{"notificationId": msgEmpty})
		return
	}

	err := n.svc(ctx).Notifications.MarkRead(ctx.Request.Context(), strings.TrimSpace(req.NotificationID), user.Handle)
	if errors.Is(err, services.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40460, "Notification not found")
		return
	}
	if err != nil {
		storeFailure(ctx, 50061, "failed to mark notification read", err)
		return
	}
	utils.Message(ctx, http.StatusOK, "Notifications marked read")
}

// DeleteByID removes one of the caller's notifications.
func (n *NotificationController) DeleteByID(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	err := n.svc(ctx).Notifications.DeleteByID(ctx.Request.Context(), ctx.Param("notificationId"), user.Handle)
	if errors.Is(err, services.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40461, "Notification not found")
		return
	}
	if err != nil {
		storeFailure(ctx, 50062, "failed to delete notification", err)
		return
	}
	utils.Message(ctx, http.StatusOK, "Notification successfully removed")
}

// CreateNotification is chained after a like or comment handler.
func (n *NotificationController) CreateNotification(ctx *gin.Context) {
	intent, ok := notificationFrom(ctx)
	if !ok {
		return
	}
	_, err := n.svc(ctx).Notifications.Create(ctx.Request.Context(), intent.Recipient, intent.PostID, intent.Sender, intent.Type, intent.TypeID)
	if err != nil {
		storeFailure(ctx, 50063, "failed to create notification", err)
	}
}

// DeleteNotification is chained after an unlike or uncomment handler and answers
// with the removal message.
func (n *NotificationController) DeleteNotification(ctx *gin.Context) {
	intent, ok := notificationFrom(ctx)
	if !ok {
		return
	}
	if _, err := n.svc(ctx).Notifications.DeleteByTrigger(ctx.Request.Context(), intent.Type, intent.TypeID); err != nil {
		storeFailure(ctx, 50064, "failed to delete notification", err)
		return
	}
	middleware.Reply(ctx, http.StatusOK, utils.MessageBody{Message: fmt.Sprintf("%s successfully removed", intent.Type)})
}
