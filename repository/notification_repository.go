package repository

import (
	"database/sql"
	"stellarone-api/model"
)

// INotificationRepository defines the contract for notification database operations.
type INotificationRepository interface {
	CreateNotification(notification *model.Notification) error
	GetNotificationByID(id string) (*model.Notification, error)
	GetNotificationsForUser(userID int) ([]*model.Notification, error)
	UpdateNotification(id, title, body string) error
	MarkNotificationRead(id string) error
	DeleteNotification(id string) error
}

type NotificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) CreateNotification(notification *model.Notification) error {
	query := `INSERT INTO notifications (id, user_id, title, body) VALUES ($1, $2, $3, $4) RETURNING read, created_at`
	return r.DB.QueryRow(query, notification.ID, notification.UserID, notification.Title, notification.Body).
		Scan(&notification.Read, &notification.CreatedAt)
}

func (r *NotificationRepository) GetNotificationByID(id string) (*model.Notification, error) {
	n := &model.Notification{}
	query := `SELECT id, user_id, title, body, read, created_at FROM notifications WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// GetNotificationsForUser returns the user's own notifications plus broadcasts.
func (r *NotificationRepository) GetNotificationsForUser(userID int) ([]*model.Notification, error) {
	query := `SELECT id, user_id, title, body, read, created_at FROM notifications
		WHERE user_id = $1 OR user_id IS NULL ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		n := &model.Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) UpdateNotification(id, title, body string) error {
	query := `UPDATE notifications SET title = $1, body = $2 WHERE id = $3`
	_, err := r.DB.Exec(query, title, body, id)
	return err
}

func (r *NotificationRepository) MarkNotificationRead(id string) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}

func (r *NotificationRepository) DeleteNotification(id string) error {
	query := `DELETE FROM notifications WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
