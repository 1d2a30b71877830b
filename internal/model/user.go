package model

import "time"

// User is a minimal account record. Authentication lives in an upstream
// gateway; this service only stores the profile referenced by tour sellers.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
