package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID      primitive.ObjectID   `json:"_id" bson:"_id"`
	Body    string               `json:"body" bson:"body"`
	Author  primitive.ObjectID   `json:"author" bson:"author"`
	Likes   []primitive.ObjectID `json:"likes" bson:"likes"`
	ReplyTo *primitive.ObjectID  `json:"reply_to" bson:"reply_to"`
	Date    time.Time            `json:"date" bson:"date"`
}

// PostView is a post with its author document inlined, mirroring what a
// populated query returns. The author is always the public shape.
type PostView struct {
	ID      primitive.ObjectID   `json:"_id"`
	Body    string               `json:"body"`
	Author  PublicUser           `json:"author"`
	Likes   []primitive.ObjectID `json:"likes"`
	ReplyTo *primitive.ObjectID  `json:"reply_to"`
	Date    time.Time            `json:"date"`
}

func (p Post) View(author PublicUser) PostView {
	return PostView{
		ID:      p.ID,
		Body:    p.Body,
		Author:  author,
		Likes:   p.Likes,
		ReplyTo: p.ReplyTo,
		Date:    p.Date,
	}
}
