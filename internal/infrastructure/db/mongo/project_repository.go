package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

type projectDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Title        string               `bson:"title"`
	CreatedBy    string               `bson:"createdBy"`
	CreatedAt    string               `bson:"createdAt"`
	Participants []domain.Participant `bson:"participants"`
}

// Create inserts a new project document and returns the generated id.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toProjectDoc(p))
	if err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert project: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID retrieves a project by id; domain.ErrProjectNotFound when the id
// is malformed or no document matches.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	var doc projectDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return fromProjectDoc(&doc), nil
}

// List returns every project in insertion order.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*domain.Project
	for cursor.Next(ctx) {
		var doc projectDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, fromProjectDoc(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// UpdateTitle performs a partial-field merge: only the title is touched.
func (r *ProjectRepository) UpdateTitle(ctx context.Context, id, title string) error {
	return r.updateFields(ctx, id, bson.M{"title": title})
}

// ReplaceParticipants overwrites the participants array.
func (r *ProjectRepository) ReplaceParticipants(ctx context.Context, id string, participants []domain.Participant) error {
	return r.updateFields(ctx, id, bson.M{"participants": participants})
}

func (r *ProjectRepository) updateFields(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProjectNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete removes the project document. Expense cascade is the service's job.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProjectNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the visibility queries rely on.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "participants.email", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toProjectDoc(p *domain.Project) *projectDoc {
	return &projectDoc{
		Title:        p.Title,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
		Participants: p.Participants,
	}
}

func fromProjectDoc(doc *projectDoc) *domain.Project {
	createdAt, _ := time.Parse(time.RFC3339, doc.CreatedAt)
	return &domain.Project{
		ID:           doc.ID.Hex(),
		Title:        doc.Title,
		CreatedBy:    doc.CreatedBy,
		CreatedAt:    createdAt,
		Participants: doc.Participants,
	}
}
