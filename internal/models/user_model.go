package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountType enumerates the kinds of accounts a user may hold.
const (
	AccountPersonal     = "PERSONAL"
	AccountAcademic     = "ACADEMIC"
	AccountProfessional = "PROFESSIONAL"
)

// Marital status values.
const (
	MaritalMarried = "MARRIED"
	MaritalSingle  = "SINGLE"
	MaritalWidowed = "WIDOWED"
)

// Location is an optional geographic point on a user profile.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// User 用户文档 (users collection)
//
// Password holds only the bcrypt hash in storage. It is blanked after
// registration and masked on login/profile before the document leaves
// the server.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username      string             `bson:"username" json:"username"`
	Password      string             `bson:"password,omitempty" json:"password,omitempty"`
	FirstName     string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName      string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	ProfilePhoto  string             `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	HeaderImage   string             `bson:"headerImage,omitempty" json:"headerImage,omitempty"`
	Biography     string             `bson:"biography,omitempty" json:"biography,omitempty"`
	DateOfBirth   *time.Time         `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	AccountType   string             `bson:"accountType,omitempty" json:"accountType,omitempty"`
	MaritalStatus string             `bson:"maritalStatus,omitempty" json:"maritalStatus,omitempty"`
	Location      *Location          `bson:"location,omitempty" json:"location,omitempty"`
	Joined        time.Time          `bson:"joined,omitempty" json:"joined,omitempty"`
}

// MaskedPassword is the placeholder sent to clients instead of the hash.
const MaskedPassword = "*****"
