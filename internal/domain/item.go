package domain

import "time"

// Item is the read-only catalog view the booking engine needs.
type Item struct {
	ID         int32      `json:"id"`
	Name       string     `json:"name"`
	IsBookable bool       `json:"isBookable"`
	DeletedOn  *time.Time `json:"deletedOn,omitempty"`
}
