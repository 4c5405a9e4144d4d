package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"learn-ease-backend/internal/identity"
	"learn-ease-backend/models"
)

type MongoBookRepo struct {
	collection *mongo.Collection
}

func NewMongoBookRepo(db *mongo.Database) *MongoBookRepo {
	return &MongoBookRepo{collection: db.Collection("books")}
}

func (r *MongoBookRepo) Insert(ctx context.Context, book *models.Book) (identity.ID, error) {
	result, err := r.collection.InsertOne(ctx, book)
	if err != nil {
		return identity.ID{}, fmt.Errorf("insert book: %w", err)
	}
	oid, ok := result.InsertedID.(interface{ Hex() string })
	if !ok {
		return identity.ID{}, fmt.Errorf("insert book: unexpected inserted id type %T", result.InsertedID)
	}
	return identity.Parse(oid.Hex())
}

func (r *MongoBookRepo) FindByID(ctx context.Context, id, userID identity.ID) (*models.Book, error) {
	var book models.Book
	err := r.collection.FindOne(ctx, bson.M{
		"_id":     id.ObjectID(),
		"user_id": userID.ObjectID(),
	}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &book, nil
}

func (r *MongoBookRepo) ListByUser(ctx context.Context, userID identity.ID) ([]models.Book, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID.ObjectID()},
		options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (r *MongoBookRepo) UpdateCategory(ctx context.Context, id, userID identity.ID, categoryID *identity.ID) error {
	var update bson.M
	if categoryID == nil {
		update = bson.M{"$unset": bson.M{"category_id": ""}}
	} else {
		update = bson.M{"$set": bson.M{"category_id": categoryID.ObjectID()}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{
		"_id":     id.ObjectID(),
		"user_id": userID.ObjectID(),
	}, update)
	if err != nil {
		return fmt.Errorf("update book category: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBookRepo) ClearCategory(ctx context.Context, userID, categoryID identity.ID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID.ObjectID(), "category_id": categoryID.ObjectID()},
		bson.M{"$unset": bson.M{"category_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("clear category references: %w", err)
	}
	return nil
}

func (r *MongoBookRepo) ExistsByStoredKey(ctx context.Context, key string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"$or": []bson.M{
			{"stored_filename": key},
			{"text_filename": key},
		},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("lookup stored key: %w", err)
	}
	return count > 0, nil
}

type MongoCategoryRepo struct {
	collection *mongo.Collection
}

func NewMongoCategoryRepo(db *mongo.Database) *MongoCategoryRepo {
	return &MongoCategoryRepo{collection: db.Collection("categories")}
}

func (r *MongoCategoryRepo) Insert(ctx context.Context, category *models.Category) (identity.ID, error) {
	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ID{}, ErrDuplicateName
		}
		return identity.ID{}, fmt.Errorf("insert category: %w", err)
	}
	oid, ok := result.InsertedID.(interface{ Hex() string })
	if !ok {
		return identity.ID{}, fmt.Errorf("insert category: unexpected inserted id type %T", result.InsertedID)
	}
	return identity.Parse(oid.Hex())
}

func (r *MongoCategoryRepo) FindByID(ctx context.Context, id, userID identity.ID) (*models.Category, error) {
	var category models.Category
	err := r.collection.FindOne(ctx, bson.M{
		"_id":     id.ObjectID(),
		"user_id": userID.ObjectID(),
	}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

func (r *MongoCategoryRepo) ListByUser(ctx context.Context, userID identity.ID) ([]models.Category, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"user_id": userID.ObjectID()},
		options.Find().SetSort(bson.D{{Key: "name_key", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *MongoCategoryRepo) UpdateName(ctx context.Context, id, userID identity.ID, name, nameKey string) (*models.Category, error) {
	var updated models.Category
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id.ObjectID(), "user_id": userID.ObjectID()},
		bson.M{"$set": bson.M{"name": name, "name_key": nameKey}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &updated, nil
}

func (r *MongoCategoryRepo) Delete(ctx context.Context, id, userID identity.ID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":     id.ObjectID(),
		"user_id": userID.ObjectID(),
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoUserRepo struct {
	collection *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{collection: db.Collection("users")}
}

func (r *MongoUserRepo) Insert(ctx context.Context, user *models.User) (identity.ID, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ID{}, ErrEmailExists
		}
		return identity.ID{}, fmt.Errorf("insert user: %w", err)
	}
	oid, ok := result.InsertedID.(interface{ Hex() string })
	if !ok {
		return identity.ID{}, fmt.Errorf("insert user: unexpected inserted id type %T", result.InsertedID)
	}
	return identity.Parse(oid.Hex())
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id identity.ID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id.ObjectID()}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
