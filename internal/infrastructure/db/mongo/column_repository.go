package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

const columnsCollection = "columns"

type columnDoc struct {
	ID        string `bson:"_id"`
	Title     string `bson:"title"`
	Order     int    `bson:"order"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

// MongoColumnRepository persists board columns. Listing nests each column's
// tasks with assignee names resolved; deleting a column cascades to its
// tasks.
type MongoColumnRepository struct {
	db *mongo.Database
}

func NewColumnRepository(db *mongo.Database) *MongoColumnRepository {
	return &MongoColumnRepository{db: db}
}

func (r *MongoColumnRepository) coll() *mongo.Collection {
	return r.db.Collection(columnsCollection)
}

func (r *MongoColumnRepository) List(ctx context.Context) ([]domain.Column, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := r.coll().Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	var docs []columnDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}

	grouped, err := tasksByColumn(ctx, r.db)
	if err != nil {
		return nil, err
	}

	columns := make([]domain.Column, len(docs))
	for i, d := range docs {
		cards := grouped[d.ID]
		if cards == nil {
			cards = []domain.Card{}
		}
		columns[i] = domain.Column{ID: d.ID, Title: d.Title, Order: d.Order, Cards: cards}
	}
	return columns, nil
}

func (r *MongoColumnRepository) Create(ctx context.Context, title string, order int) (*domain.Column, error) {
	now := time.Now().UTC().Unix()
	doc := columnDoc{
		ID:        uuid.NewString(),
		Title:     title,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert column: %w", err)
	}
	return &domain.Column{ID: doc.ID, Title: doc.Title, Order: doc.Order, Cards: []domain.Card{}}, nil
}

func (r *MongoColumnRepository) Update(ctx context.Context, id string, title *string, order *int) (*domain.Column, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if title != nil {
		set["title"] = *title
	}
	if order != nil {
		set["order"] = *order
	}

	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update column: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrColumnNotFound
	}

	var doc columnDoc
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("find column: %w", err)
	}
	return &domain.Column{ID: doc.ID, Title: doc.Title, Order: doc.Order, Cards: []domain.Card{}}, nil
}

func (r *MongoColumnRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete column: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrColumnNotFound
	}

	// cascade: a column owns its tasks
	if _, err := r.db.Collection(tasksCollection).DeleteMany(ctx, bson.M{"column_id": id}); err != nil {
		return fmt.Errorf("cascade delete tasks: %w", err)
	}
	return nil
}
