package models

import "time"

type Feedback struct {
	ID        string    `firestore:"-" json:"id"`
	Stars     int       `firestore:"stars" json:"stars"`
	Feedback  string    `firestore:"feedback" json:"feedback"`
	UserID    string    `firestore:"userId" json:"userId"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
