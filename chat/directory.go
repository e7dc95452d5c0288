package chat

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobdesk/messaging_backend/models"
)

// Credentials is the directory record consumed by the login boundary.
type Credentials struct {
	models.ParticipantSummary
	PasswordHash string
}

// Directory is the single lookup surface over the three participant
// collections. Resolve probes them in a fixed order so an id that happens
// to exist in two collections always resolves the same way.
type Directory interface {
	Lookup(ctx context.Context, kind models.ParticipantKind, id string) (models.ParticipantSummary, error)
	Resolve(ctx context.Context, id string) (models.ParticipantSummary, error)
	Candidates(ctx context.Context, callerKind models.ParticipantKind) ([]models.ParticipantSummary, error)
	LookupByEmail(ctx context.Context, email string) (Credentials, error)
}

type MongoDirectory struct {
	users     *mongo.Collection
	companies *mongo.Collection
	employees *mongo.Collection
}

func NewMongoDirectory(db *mongo.Database) *MongoDirectory {
	return &MongoDirectory{
		users:     db.Collection("users"),
		companies: db.Collection("companies"),
		employees: db.Collection("employees"),
	}
}

// resolveOrder is the probe order for kind-less lookups.
var resolveOrder = []models.ParticipantKind{models.KindEmployee, models.KindCompany, models.KindUser}

type directoryDoc struct {
	OID         primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	CompanyName string             `bson:"companyName"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
}

func (doc directoryDoc) summary(kind models.ParticipantKind) models.ParticipantSummary {
	name := doc.Name
	if kind == models.KindCompany {
		name = doc.CompanyName
	}
	return models.ParticipantSummary{ID: doc.OID.Hex(), Kind: kind, Name: name, Email: doc.Email}
}

func (d *MongoDirectory) collection(kind models.ParticipantKind) *mongo.Collection {
	switch kind {
	case models.KindCompany:
		return d.companies
	case models.KindEmployee:
		return d.employees
	default:
		return d.users
	}
}

func (d *MongoDirectory) Lookup(ctx context.Context, kind models.ParticipantKind, id string) (models.ParticipantSummary, error) {
	if !kind.Valid() {
		return models.ParticipantSummary{}, &ValidationError{Field: "kind", Reason: "must be user, company or employee"}
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ParticipantSummary{}, &NotFoundError{Resource: "participant", ID: id}
	}
	var doc directoryDoc
	err = d.collection(kind).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ParticipantSummary{}, &NotFoundError{Resource: "participant", ID: id}
	}
	if err != nil {
		return models.ParticipantSummary{}, err
	}
	return doc.summary(kind), nil
}

// Resolve probes employees, then companies, then users. The order is part
// of the contract: duplicate ids across collections resolve to the first
// match, never ambiguously.
func (d *MongoDirectory) Resolve(ctx context.Context, id string) (models.ParticipantSummary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ParticipantSummary{}, &NotFoundError{Resource: "participant", ID: id}
	}
	for _, kind := range resolveOrder {
		var doc directoryDoc
		err := d.collection(kind).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return models.ParticipantSummary{}, err
		}
		return doc.summary(kind), nil
	}
	return models.ParticipantSummary{}, &NotFoundError{Resource: "participant", ID: id}
}

// Candidates partitions contacts by the caller's kind: companies are
// offered professionals, professionals are offered companies, and a generic
// user gets the union of both. Filtering happens client-side.
func (d *MongoDirectory) Candidates(ctx context.Context, callerKind models.ParticipantKind) ([]models.ParticipantSummary, error) {
	var kinds []models.ParticipantKind
	switch callerKind {
	case models.KindCompany:
		kinds = []models.ParticipantKind{models.KindEmployee}
	case models.KindEmployee:
		kinds = []models.ParticipantKind{models.KindCompany}
	default:
		kinds = []models.ParticipantKind{models.KindCompany, models.KindEmployee}
	}

	var out []models.ParticipantSummary
	for _, kind := range kinds {
		cursor, err := d.collection(kind).Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		var docs []directoryDoc
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, err
		}
		for _, doc := range docs {
			out = append(out, doc.summary(kind))
		}
	}
	return out, nil
}

func (d *MongoDirectory) LookupByEmail(ctx context.Context, email string) (Credentials, error) {
	for _, kind := range resolveOrder {
		var doc directoryDoc
		err := d.collection(kind).FindOne(ctx, bson.M{"email": email}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return Credentials{}, err
		}
		return Credentials{ParticipantSummary: doc.summary(kind), PasswordHash: doc.Password}, nil
	}
	return Credentials{}, &NotFoundError{Resource: "participant", ID: email}
}
