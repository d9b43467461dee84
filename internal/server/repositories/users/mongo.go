package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding user documents.
const CollectionName = "users"

const emailKeyIndexName = "emailKey_unique"

// userDocument is the stored shape of a user. Field names follow the
// documents written by earlier versions of the service; emailKey is the
// lowercased email used for uniqueness.
type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	EmailKey  string             `bson:"emailKey"`
	Username  string             `bson:"username,omitempty"`
	Password  string             `bson:"password"`
	FirstName string             `bson:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty"`
	Address   string             `bson:"address,omitempty"`
	Phone     string             `bson:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toDocument(u *models.User) userDocument {
	return userDocument{
		Email:     u.Email,
		EmailKey:  models.EmailKey(u.Email),
		Username:  u.Username,
		Password:  u.PasswordHash,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address:   u.Address,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func (d userDocument) toModel() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Username:     d.Username,
		PasswordHash: d.Password,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Address:      d.Address,
		Phone:        d.Phone,
		CreatedAt:    d.CreatedAt,
	}
}

// patchToSet builds the $set document for a patch. Only set fields appear.
func patchToSet(p models.UserPatch) bson.D {
	set := bson.D{}
	add := func(key string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: key, Value: *v})
		}
	}

	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		set = append(set,
			bson.E{Key: "email", Value: email},
			bson.E{Key: "emailKey", Value: models.EmailKey(email)})
	}
	add("password", p.PasswordHash)
	add("username", p.Username)
	add("firstName", p.FirstName)
	add("lastName", p.LastName)
	add("address", p.Address)
	add("phone", p.Phone)

	return set
}

// MongoRepository stores users as documents in a MongoDB collection. The
// unique index created by EnsureIndexes backs the email pre-checks.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll, now: time.Now}
}

// EnsureIndexes creates the unique index on emailKey if it is missing.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "emailKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailKeyIndexName),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "emailKey", Value: models.EmailKey(email)}})
}

// FindByID treats ids that are not valid ObjectIDs as absent.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.Email = strings.TrimSpace(u.Email)

	_, err := r.FindByEmail(ctx, u.Email)
	if err == nil {
		return nil, common.ErrConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	u.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	doc := toDocument(&u)
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc.toModel(), nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	if patch.Email != nil {
		_, err := r.findOne(ctx, bson.D{
			{Key: "emailKey", Value: models.EmailKey(*patch.Email)},
			{Key: "_id", Value: bson.D{{Key: "$ne", Value: oid}}},
		})
		if err == nil {
			return nil, common.ErrConflict
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}

	set := patchToSet(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc.toModel(), nil
}

func (r *MongoRepository) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrorNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]*models.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := make([]*models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}
