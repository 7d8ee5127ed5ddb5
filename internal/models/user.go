package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password_hash,omitempty" json:"-"`
	CreatedAt    time.Time     `bson:"created_at,omitempty" json:"createdAt,omitempty"`
	UpdatedAt    time.Time     `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}
