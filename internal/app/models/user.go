package models

import "time"

type TimeModel struct {
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

type User struct {
	ID          string `bson:"_id,omitempty"`
	Email       string `bson:"email"`
	Password    string `bson:"password"`
	PhoneNumber string `bson:"phoneNumber"`
	TimeModel   `bson:",inline"`
}
