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
	"github.com/sprintdeck/board-system/internal/core/ports"
)

const sprintsCollection = "sprints"

type sprintDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	StartDate   string `bson:"start_date,omitempty"`
	EndDate     string `bson:"end_date,omitempty"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (d sprintDoc) toSprint(tasks []domain.Card) domain.Sprint {
	if tasks == nil {
		tasks = []domain.Card{}
	}
	return domain.Sprint{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      domain.SprintStatus(d.Status),
		Tasks:       tasks,
		CreatedAt:   unixToTime(d.CreatedAt),
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

// MongoSprintRepository persists sprints. A sprint does not own its tasks;
// listing aggregates the tasks that reference it, and deleting detaches them.
type MongoSprintRepository struct {
	db *mongo.Database
}

func NewSprintRepository(db *mongo.Database) *MongoSprintRepository {
	return &MongoSprintRepository{db: db}
}

func (r *MongoSprintRepository) coll() *mongo.Collection {
	return r.db.Collection(sprintsCollection)
}

func (r *MongoSprintRepository) List(ctx context.Context) ([]domain.Sprint, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll().Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	var docs []sprintDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sprints: %w", err)
	}

	taskCur, err := r.db.Collection(tasksCollection).Find(ctx, bson.M{"sprint_id": bson.M{"$ne": ""}})
	if err != nil {
		return nil, fmt.Errorf("list sprint tasks: %w", err)
	}
	var taskDocs []taskDoc
	if err := taskCur.All(ctx, &taskDocs); err != nil {
		return nil, fmt.Errorf("decode sprint tasks: %w", err)
	}
	names, err := userNames(ctx, r.db)
	if err != nil {
		return nil, err
	}
	bySprint := make(map[string][]domain.Card)
	for _, d := range taskDocs {
		bySprint[d.SprintID] = append(bySprint[d.SprintID], d.toCard(names[d.AssigneeID]))
	}

	sprints := make([]domain.Sprint, len(docs))
	for i, d := range docs {
		sprints[i] = d.toSprint(bySprint[d.ID])
	}
	return sprints, nil
}

func (r *MongoSprintRepository) Create(ctx context.Context, in ports.SprintInput) (*domain.Sprint, error) {
	status := in.Status
	if status == "" {
		status = string(domain.SprintPlanned)
	}

	now := time.Now().UTC().Unix()
	doc := sprintDoc{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert sprint: %w", err)
	}
	s := doc.toSprint(nil)
	return &s, nil
}

func (r *MongoSprintRepository) Update(ctx context.Context, id string, update ports.SprintUpdate) (*domain.Sprint, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.StartDate != nil {
		set["start_date"] = *update.StartDate
	}
	if update.EndDate != nil {
		set["end_date"] = *update.EndDate
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update sprint: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrSprintNotFound
	}

	var doc sprintDoc
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("find sprint: %w", err)
	}
	s := doc.toSprint(nil)
	return &s, nil
}

func (r *MongoSprintRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete sprint: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSprintNotFound
	}

	// detach: tasks survive their sprint
	_, err = r.db.Collection(tasksCollection).UpdateMany(ctx,
		bson.M{"sprint_id": id},
		bson.M{"$unset": bson.M{"sprint_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("detach sprint tasks: %w", err)
	}
	return nil
}
