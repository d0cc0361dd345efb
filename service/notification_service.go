package service

import (
	"database/sql"
	"errors"
	"stellarone-api/model"
	"stellarone-api/repository"

	"github.com/google/uuid"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrBroadcastReadOnly    = errors.New("broadcast notifications cannot be marked read")
)

// NotificationService manages per-user and broadcast messages.
type NotificationService struct {
	repo repository.INotificationRepository
}

func NewNotificationService(repo repository.INotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(req model.CreateNotificationRequest) (*model.Notification, error) {
	notification := &model.Notification{
		ID:     uuid.NewString(),
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Body,
	}
	if err := s.repo.CreateNotification(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *NotificationService) ListForUser(userID int) ([]*model.Notification, error) {
	return s.repo.GetNotificationsForUser(userID)
}

func (s *NotificationService) Update(id string, req model.UpdateNotificationRequest) (*model.Notification, error) {
	if _, err := s.get(id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateNotification(id, req.Title, req.Body); err != nil {
		return nil, err
	}
	return s.get(id)
}

// MarkRead toggles the read flag. Only the addressed user may do this, and
// broadcasts carry no per-user read state.
func (s *NotificationService) MarkRead(id string, userID int) (*model.Notification, error) {
	notification, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if notification.IsBroadcast() {
		return nil, ErrBroadcastReadOnly
	}
	if *notification.UserID != userID {
		return nil, ErrPermissionDenied
	}
	if err := s.repo.MarkNotificationRead(id); err != nil {
		return nil, err
	}
	notification.Read = true
	return notification, nil
}

func (s *NotificationService) Delete(id string) error {
	if _, err := s.get(id); err != nil {
		return err
	}
	return s.repo.DeleteNotification(id)
}

func (s *NotificationService) get(id string) (*model.Notification, error) {
	notification, err := s.repo.GetNotificationByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return notification, nil
}
