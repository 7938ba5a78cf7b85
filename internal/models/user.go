package models

// User represents a registered visitor
type User struct {
	ID           int
	Email        string
	PasswordHash string // never rendered or serialized
	Name         string
}
