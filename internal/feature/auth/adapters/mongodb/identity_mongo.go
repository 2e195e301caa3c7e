// Package mongodb provides a MongoDB implementation of the credential store.
package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/usecase"
)

// CollectionName is the collection holding identities.
const CollectionName = "users"

// identityDocument is the BSON shape of an identity.
type identityDocument struct {
	ID            string    `bson:"_id"`
	Email         string    `bson:"email"`
	PasswordHash  string    `bson:"password"`
	Name          string    `bson:"name"`
	Bio           string    `bson:"bio"`
	LastLogin     time.Time `bson:"lastLogin"`
	SecurityScore int       `bson:"securityScore"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func (d *identityDocument) toEntity() *entity.Identity {
	return &entity.Identity{
		ID:            d.ID,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Name:          d.Name,
		Bio:           d.Bio,
		LastLogin:     d.LastLogin,
		SecurityScore: d.SecurityScore,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func documentFromEntity(i *entity.Identity) *identityDocument {
	return &identityDocument{
		ID:            i.ID,
		Email:         i.Email,
		PasswordHash:  i.PasswordHash,
		Name:          i.Name,
		Bio:           i.Bio,
		LastLogin:     i.LastLogin,
		SecurityScore: i.SecurityScore,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// IdentityStore implements usecase.CredentialStore on a MongoDB collection.
type IdentityStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ usecase.CredentialStore = (*IdentityStore)(nil)

// NewIdentityStore creates an IdentityStore on the users collection of db.
// EnsureIndexes must be called once before the store is used for writes.
func NewIdentityStore(db *mongo.Database) *IdentityStore {
	return &IdentityStore{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the unique index on email.
func (s *IdentityStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return classifyError("ensure indexes", err)
}

// Create inserts a new identity document.
func (s *IdentityStore) Create(ctx context.Context, identity *entity.Identity) error {
	if identity == nil {
		return errors.New("identity is nil")
	}
	now := s.now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, documentFromEntity(identity))
	return classifyError("create identity", err)
}

// FindByEmail retrieves an identity by its email (exact match).
func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return s.findOne(ctx, "find identity by email", bson.D{{Key: "email", Value: email}})
}

// FindByID retrieves an identity by its id.
func (s *IdentityStore) FindByID(ctx context.Context, id string) (*entity.Identity, error) {
	return s.findOne(ctx, "find identity by id", bson.D{{Key: "_id", Value: id}})
}

func (s *IdentityStore) findOne(ctx context.Context, op string, filter bson.D) (*entity.Identity, error) {
	var doc identityDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, classifyError(op, err)
	}
	return doc.toEntity(), nil
}

// Update applies the supplied fields atomically and returns the new document.
func (s *IdentityStore) Update(ctx context.Context, id string, patch entity.IdentityPatch) (*entity.Identity, error) {
	if patch.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	var doc identityDocument
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: updateSet(patch, s.now())}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, classifyError("update identity", err)
	}
	return doc.toEntity(), nil
}

// updateSet builds the $set document for a patch.
func updateSet(patch entity.IdentityPatch, now time.Time) bson.D {
	set := bson.D{}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Bio != nil {
		set = append(set, bson.E{Key: "bio", Value: *patch.Bio})
	}
	if patch.LastLogin != nil {
		set = append(set, bson.E{Key: "lastLogin", Value: *patch.LastLogin})
	}
	return append(set, bson.E{Key: "updatedAt", Value: now})
}

// Ping checks connectivity with the primary.
func (s *IdentityStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return pingError(err)
	}
	return nil
}
