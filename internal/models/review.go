package models

import "time"

// Review - отзыв о курсе (reviews/{id})
type Review struct {
	ID         string    `firestore:"-" json:"id"`
	UserID     string    `firestore:"userId" json:"userId"`
	Body       string    `firestore:"body" json:"body"`
	Stars      int       `firestore:"stars" json:"stars"`
	Course     string    `firestore:"course" json:"course"`
	Instructor string    `firestore:"instructor" json:"instructor"`
	Likes      []string  `firestore:"likes" json:"likes"`
	Shares     int       `firestore:"shares" json:"shares"`
	Keywords   []string  `firestore:"keywords" json:"keywords"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
}

// Normalize: keywords = токены курса + токены преподавателя
func (r *Review) Normalize() {
	r.Keywords = Keywords(r.Course, r.Instructor)
	if r.Likes == nil {
		r.Likes = []string{}
	}
}

// Comment - reviews/{reviewId}/comments/{id}
type Comment struct {
	ID        string    `firestore:"-" json:"id"`
	UserID    string    `firestore:"userId" json:"userId"`
	ReviewID  string    `firestore:"reviewId" json:"reviewId"`
	Body      string    `firestore:"body" json:"body"`
	Likes     []string  `firestore:"likes" json:"likes"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
