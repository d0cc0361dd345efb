package handler

import (
	"net/http"
	"stellarone-api/common"
	"stellarone-api/model"
	"stellarone-api/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(s *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// List returns the caller's notifications plus broadcasts.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	notifications, err := h.service.ListForUser(userID)
	if err != nil {
		return serviceError(err, "Could not retrieve notifications")
	}
	common.WriteJSON(w, http.StatusOK, notifications)
	return nil
}

// Create posts a notification to one user or to everyone; admin only.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateNotificationRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	notification, err := h.service.Create(req)
	if err != nil {
		return serviceError(err, "Could not create notification")
	}
	common.WriteJSON(w, http.StatusCreated, notification)
	return nil
}

// Update edits a notification's content; admin only.
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateNotificationRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	notification, err := h.service.Update(r.PathValue("id"), req)
	if err != nil {
		return serviceError(err, "Could not update notification")
	}
	common.WriteJSON(w, http.StatusOK, notification)
	return nil
}

// MarkRead flips the read flag; only the addressed user may do this.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, _, appErr := userFromContext(r)
	if appErr != nil {
		return appErr
	}

	notification, err := h.service.MarkRead(r.PathValue("id"), userID)
	if err != nil {
		return serviceError(err, "Could not mark notification read")
	}
	common.WriteJSON(w, http.StatusOK, notification)
	return nil
}

// Delete removes a notification; admin only.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := h.service.Delete(r.PathValue("id")); err != nil {
		return serviceError(err, "Could not delete notification")
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
