package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is a generic account on the platform (job seekers without a
// professional profile, admins browsing as themselves, etc).
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
}

// Company is a hiring organization.
type Company struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CompanyName string             `json:"companyName" bson:"companyName"`
	Email       string             `json:"email" bson:"email"`
	Password    string             `json:"-" bson:"password"`
}

// Employee is an individual professional with a public profile.
type Employee struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name     string             `json:"name" bson:"name"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
	Skills   []string           `json:"skills,omitempty" bson:"skills,omitempty"`
}

// ParticipantSummary is the display-capable identity the messaging core
// consumes: an opaque id, the kind tag, and a label with an email fallback.
type ParticipantSummary struct {
	ID    string          `json:"id"`
	Kind  ParticipantKind `json:"kind"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
}

// DisplayName falls back to the email when no name is set.
func (p ParticipantSummary) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}
