package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tripsplit/expenses-system/internal/core/domain"
)

const collectionExpenses = "expenses"

// ExpenseRepository stores the expense sub-collection. Every query is scoped
// by projectId so an expense id from one project can never address another's.
type ExpenseRepository struct {
	col *mongo.Collection
}

func NewExpenseRepository(db *mongo.Database) *ExpenseRepository {
	return &ExpenseRepository{col: db.Collection(collectionExpenses)}
}

type expenseDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	ProjectID       string             `bson:"projectId"`
	Concept         string             `bson:"concept"`
	Amount          float64            `bson:"amount"`
	PaidBy          string             `bson:"paidBy"`
	SplitAmong      []string           `bson:"splitAmong"`
	AmountPerPerson float64            `bson:"amountPerPerson"`
	CreatedAt       string             `bson:"createdAt"`
}

// Create inserts a new expense document and returns the generated id.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toExpenseDoc(e))
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert expense: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindByID retrieves one expense within a project.
func (r *ExpenseRepository) FindByID(ctx context.Context, projectID, expenseID string) (*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(expenseID)
	if err != nil {
		return nil, domain.ErrExpenseNotFound
	}

	var doc expenseDoc
	err = r.col.FindOne(ctx, bson.M{"_id": oid, "projectId": projectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return fromExpenseDoc(&doc), nil
}

// ListByProject returns the project's expenses ordered by creation time.
func (r *ExpenseRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var expenses []*domain.Expense
	for cursor.Next(ctx) {
		var doc expenseDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode expense: %w", err)
		}
		expenses = append(expenses, fromExpenseDoc(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Update overwrites the user-editable fields, merge-style.
func (r *ExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return domain.ErrExpenseNotFound
	}

	fields := bson.M{
		"concept":         e.Concept,
		"amount":          e.Amount,
		"paidBy":          e.PaidBy,
		"splitAmong":      e.SplitAmong,
		"amountPerPerson": e.AmountPerPerson,
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid, "projectId": e.ProjectID}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// Delete removes one expense from the project.
func (r *ExpenseRepository) Delete(ctx context.Context, projectID, expenseID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(expenseID)
	if err != nil {
		return domain.ErrExpenseNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "projectId": projectID})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// DeleteByProject removes all of a project's expenses (cascade).
func (r *ExpenseRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"projectId": projectID}); err != nil {
		return fmt.Errorf("cascade delete expenses: %w", err)
	}
	return nil
}

// EnsureIndexes creates the projectId index the sub-collection queries use.
func (r *ExpenseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "projectId", Value: 1}}},
		{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toExpenseDoc(e *domain.Expense) *expenseDoc {
	return &expenseDoc{
		ProjectID:       e.ProjectID,
		Concept:         e.Concept,
		Amount:          e.Amount,
		PaidBy:          e.PaidBy,
		SplitAmong:      e.SplitAmong,
		AmountPerPerson: e.AmountPerPerson,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func fromExpenseDoc(doc *expenseDoc) *domain.Expense {
	createdAt, _ := time.Parse(time.RFC3339, doc.CreatedAt)
	return &domain.Expense{
		ID:              doc.ID.Hex(),
		ProjectID:       doc.ProjectID,
		Concept:         doc.Concept,
		Amount:          doc.Amount,
		PaidBy:          doc.PaidBy,
		SplitAmong:      doc.SplitAmong,
		AmountPerPerson: doc.AmountPerPerson,
		CreatedAt:       createdAt,
	}
}
