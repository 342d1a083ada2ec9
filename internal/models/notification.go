package models

import "time"

// OrderNotification announces a created order to the notification service
type OrderNotification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Event     string    `json:"event"`
	OrderID   int       `json:"orderId"`
	Timestamp time.Time `json:"timestamp"`
}
