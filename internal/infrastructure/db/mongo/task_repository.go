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

const tasksCollection = "tasks"

type taskDoc struct {
	ID           string `bson:"_id"`
	TaskID       string `bson:"task_id"`
	Title        string `bson:"title"`
	Description  string `bson:"description,omitempty"`
	Priority     string `bson:"priority"`
	StoryPoints  int    `bson:"story_points,omitempty"`
	Progress     int    `bson:"progress,omitempty"`
	TimeEstimate string `bson:"time_estimate,omitempty"`
	Module       string `bson:"module,omitempty"`
	Target       string `bson:"target,omitempty"`
	ImageURL     string `bson:"image_url,omitempty"`
	ColumnID     string `bson:"column_id"`
	SprintID     string `bson:"sprint_id,omitempty"`
	AssigneeID   string `bson:"assignee_id,omitempty"`
	Order        *int   `bson:"order,omitempty"`
	StartDate    string `bson:"start_date,omitempty"`
	DueDate      string `bson:"due_date,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (d taskDoc) toCard(assigneeName string) domain.Card {
	return domain.Card{
		ID:           d.ID,
		TaskID:       d.TaskID,
		ColumnID:     d.ColumnID,
		Title:        d.Title,
		Description:  d.Description,
		Priority:     d.Priority,
		StoryPoints:  d.StoryPoints,
		AssigneeID:   d.AssigneeID,
		Assignee:     assigneeName,
		Progress:     d.Progress,
		TimeEstimate: d.TimeEstimate,
		Module:       d.Module,
		Target:       d.Target,
		ImageURL:     d.ImageURL,
		SprintID:     d.SprintID,
		Order:        d.Order,
		StartDate:    d.StartDate,
		DueDate:      d.DueDate,
	}
}

// MongoTaskRepository persists tasks. Lookups resolve the assignee relation
// so responses can nest the display name.
type MongoTaskRepository struct {
	db *mongo.Database
}

func NewTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{db: db}
}

func (r *MongoTaskRepository) coll() *mongo.Collection {
	return r.db.Collection(tasksCollection)
}

// userNames loads an id -> display name map for assignee resolution.
func userNames(ctx context.Context, db *mongo.Database) (map[string]string, error) {
	cur, err := db.Collection(usersCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	names := make(map[string]string, len(docs))
	for _, d := range docs {
		names[d.ID] = d.Name
	}
	return names, nil
}

// tasksByColumn loads every task grouped by owning column, sorted by order
// then creation time inside each group.
func tasksByColumn(ctx context.Context, db *mongo.Database) (map[string][]domain.Card, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := db.Collection(tasksCollection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	names, err := userNames(ctx, db)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Card)
	for _, d := range docs {
		grouped[d.ColumnID] = append(grouped[d.ColumnID], d.toCard(names[d.AssigneeID]))
	}
	return grouped, nil
}

func (r *MongoTaskRepository) List(ctx context.Context) ([]domain.Card, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll().Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	names, err := userNames(ctx, r.db)
	if err != nil {
		return nil, err
	}

	cards := make([]domain.Card, len(docs))
	for i, d := range docs {
		cards[i] = d.toCard(names[d.AssigneeID])
	}
	return cards, nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Card, error) {
	taskID := in.TaskID
	if taskID == "" {
		taskID = fmt.Sprintf("PROJ-%d", time.Now().UnixMilli())
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC().Unix()
	doc := taskDoc{
		ID:           uuid.NewString(),
		TaskID:       taskID,
		Title:        in.Title,
		Description:  in.Description,
		Priority:     priority,
		StoryPoints:  in.StoryPoints,
		Progress:     in.Progress,
		TimeEstimate: in.TimeEstimate,
		Module:       in.Module,
		Target:       in.Target,
		ImageURL:     in.ImageURL,
		ColumnID:     in.ColumnID,
		SprintID:     in.SprintID,
		AssigneeID:   in.AssigneeID,
		StartDate:    in.StartDate,
		DueDate:      in.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return r.findByID(ctx, doc.ID)
}

func (r *MongoTaskRepository) Update(ctx context.Context, id string, update ports.TaskUpdate) (*domain.Card, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	setStr := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			set[key] = *v
		}
	}
	setStr("title", update.Title)
	setStr("description", update.Description)
	setStr("priority", update.Priority)
	setStr("time_estimate", update.TimeEstimate)
	setStr("module", update.Module)
	setStr("target", update.Target)
	setStr("image_url", update.ImageURL)
	setStr("assignee_id", update.AssigneeID)
	setStr("sprint_id", update.SprintID)
	setStr("column_id", update.ColumnID)
	setStr("start_date", update.StartDate)
	setStr("due_date", update.DueDate)
	setInt("story_points", update.StoryPoints)
	setInt("progress", update.Progress)
	setInt("order", update.Order)

	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.findByID(ctx, id)
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) findByID(ctx context.Context, id string) (*domain.Card, error) {
	var doc taskDoc
	if err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	assignee := ""
	if doc.AssigneeID != "" {
		var u userDoc
		if err := r.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": doc.AssigneeID}).Decode(&u); err == nil {
			assignee = u.Name
		}
	}
	card := doc.toCard(assignee)
	return &card, nil
}
