package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"codetrack/model"
)

type Repository struct {
	mongoclientInstance *mongo.Client
	problems            *mongo.Collection
	users               *mongo.Collection
}

func NewRepository(client *mongo.Client) *Repository {
	db := client.Database("codetrack_db")
	return &Repository{
		mongoclientInstance: client,
		problems:            db.Collection("problems"),
		users:               db.Collection("users"),
	}
}

// EnsureIndexes creates the query indexes the dashboard and revision
// listings rely on, plus the unique email constraint.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.problems.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "platform", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "mainCategory", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "revisionSchedule.nextRevisionDate", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *Repository) CreateProblem(ctx context.Context, p model.Problem) (model.Problem, error) {
	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.TopicTags == nil {
		p.TopicTags = []string{}
	}
	if p.RevisionSchedule.RevisionHistory == nil {
		p.RevisionSchedule.RevisionHistory = []model.RevisionEntry{}
	}
	if _, err := r.problems.InsertOne(ctx, p); err != nil {
		return model.Problem{}, err
	}
	return p, nil
}

func (r *Repository) GetProblem(ctx context.Context, userID, problemID primitive.ObjectID) (model.Problem, error) {
	var p model.Problem
	err := r.problems.FindOne(ctx, bson.M{"_id": problemID, "userId": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Problem{}, fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	if err != nil {
		return model.Problem{}, err
	}
	return p, nil
}

// ProblemFilter narrows a user's problem listing; zero values mean "any".
type ProblemFilter struct {
	Status        string
	Platform      string
	Difficulty    string
	Category      string
	Pattern       string
	FavoritesOnly bool
	Search        string
	SortBy        string
	SortOrder     string
	Page          int64
	Limit         int64
}

func (r *Repository) ListProblems(ctx context.Context, userID primitive.ObjectID, f ProblemFilter) ([]model.Problem, int64, error) {
	filter := bson.M{"userId": userID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Platform != "" {
		filter["platform"] = f.Platform
	}
	if f.Difficulty != "" {
		filter["platformDifficulty"] = f.Difficulty
	}
	if f.Category != "" {
		filter["mainCategory"] = f.Category
	}
	if f.Pattern != "" {
		filter["problemPattern"] = f.Pattern
	}
	if f.FavoritesOnly {
		filter["isFavorite"] = true
	}
	if f.Search != "" {
		filter["$or"] = []bson.M{
			{"problemName": bson.M{"$regex": f.Search, "$options": "i"}},
			{"problemTitle": bson.M{"$regex": f.Search, "$options": "i"}},
			{"description": bson.M{"$regex": f.Search, "$options": "i"}},
			{"topicTags": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := -1
	if f.SortOrder == "asc" {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)
	cursor, err := r.problems.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	var problems []model.Problem
	if err = cursor.All(ctx, &problems); err != nil {
		return nil, 0, err
	}
	total, err := r.problems.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return problems, total, nil
}

// ListAllProblems loads every problem of one user, for in-memory
// aggregation.
func (r *Repository) ListAllProblems(ctx context.Context, userID primitive.ObjectID) ([]model.Problem, error) {
	return r.findProblems(ctx, bson.M{"userId": userID})
}

// ListSolvedProblems loads the solved subset, the input to streak and
// distribution computations.
func (r *Repository) ListSolvedProblems(ctx context.Context, userID primitive.ObjectID) ([]model.Problem, error) {
	return r.findProblems(ctx, bson.M{"userId": userID, "status": model.StatusSolved})
}

// ListScheduledProblems loads problems with a revision date set, ordered by
// that date ascending.
func (r *Repository) ListScheduledProblems(ctx context.Context, userID primitive.ObjectID) ([]model.Problem, error) {
	cursor, err := r.problems.Find(ctx,
		bson.M{"userId": userID, "revisionSchedule.nextRevisionDate": bson.M{"$ne": nil}},
		options.Find().SetSort(bson.D{{Key: "revisionSchedule.nextRevisionDate", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var problems []model.Problem
	if err = cursor.All(ctx, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *Repository) findProblems(ctx context.Context, filter bson.M) ([]model.Problem, error) {
	cursor, err := r.problems.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var problems []model.Problem
	if err = cursor.All(ctx, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *Repository) UpdateProblem(ctx context.Context, userID, problemID primitive.ObjectID, req model.UpdateProblemRequest) (model.Problem, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.ProblemName != nil {
		set["problemName"] = *req.ProblemName
	}
	if req.ProblemTitle != nil {
		set["problemTitle"] = *req.ProblemTitle
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.ProblemLink != nil {
		set["problemLink"] = *req.ProblemLink
	}
	if req.Platform != nil {
		set["platform"] = *req.Platform
	}
	if req.PlatformDifficulty != nil {
		set["platformDifficulty"] = *req.PlatformDifficulty
	}
	if req.RealDifficulty != nil {
		set["realDifficulty"] = *req.RealDifficulty
	}
	if req.TimeTaken != nil {
		set["timeTaken"] = *req.TimeTaken
	}
	if req.MainCategory != nil {
		set["mainCategory"] = *req.MainCategory
	}
	if req.TopicTags != nil {
		set["topicTags"] = req.TopicTags
	}
	if req.ProblemPattern != nil {
		set["problemPattern"] = *req.ProblemPattern
	}
	if req.ApproachNotes != nil {
		set["approachNotes"] = *req.ApproachNotes
	}
	if req.CodeSnippet != nil {
		set["codeSnippet"] = *req.CodeSnippet
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}
	if req.IsFavorite != nil {
		set["isFavorite"] = *req.IsFavorite
	}

	return r.findOneAndUpdateProblem(ctx, bson.M{"_id": problemID, "userId": userID}, bson.M{"$set": set})
}

func (r *Repository) DeleteProblem(ctx context.Context, userID, problemID primitive.ObjectID) error {
	result, err := r.problems.DeleteOne(ctx, bson.M{"_id": problemID, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	return nil
}

func (r *Repository) ToggleFavorite(ctx context.Context, userID, problemID primitive.ObjectID) (model.Problem, error) {
	p, err := r.GetProblem(ctx, userID, problemID)
	if err != nil {
		return model.Problem{}, err
	}
	return r.findOneAndUpdateProblem(ctx,
		bson.M{"_id": problemID, "userId": userID},
		bson.M{"$set": bson.M{"isFavorite": !p.IsFavorite, "updatedAt": time.Now()}},
	)
}

// ApplyRevisionSchedule persists a schedule produced by the revision engine.
// The filter pins the stored revisionCount to the value the schedule was
// computed from, so two concurrent mark-as-revised requests cannot both
// land: the loser matches nothing and gets ErrConflict to retry on.
func (r *Repository) ApplyRevisionSchedule(ctx context.Context, userID, problemID primitive.ObjectID, expectedCount int, sched model.RevisionSchedule) (model.Problem, error) {
	filter := bson.M{
		"_id":                            problemID,
		"userId":                         userID,
		"revisionSchedule.revisionCount": expectedCount,
	}
	update := bson.M{"$set": bson.M{
		"revisionSchedule": sched,
		"updatedAt":        time.Now(),
	}}
	p, err := r.findOneAndUpdateProblem(ctx, filter, update)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Problem{}, err
	}
	// Distinguish a missing problem from a lost race.
	if _, getErr := r.GetProblem(ctx, userID, problemID); getErr != nil {
		return model.Problem{}, getErr
	}
	return model.Problem{}, fmt.Errorf("%w: revision count moved past %d", model.ErrConflict, expectedCount)
}

// SetNextRevisionDate applies an explicit reschedule, leaving count and
// history untouched.
func (r *Repository) SetNextRevisionDate(ctx context.Context, userID, problemID primitive.ObjectID, date time.Time) (model.Problem, error) {
	return r.findOneAndUpdateProblem(ctx,
		bson.M{"_id": problemID, "userId": userID},
		bson.M{"$set": bson.M{"revisionSchedule.nextRevisionDate": date, "updatedAt": time.Now()}},
	)
}

func (r *Repository) findOneAndUpdateProblem(ctx context.Context, filter, update bson.M) (model.Problem, error) {
	var p model.Problem
	err := r.problems.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Problem{}, fmt.Errorf("%w: problem", model.ErrNotFound)
	}
	if err != nil {
		return model.Problem{}, err
	}
	return p, nil
}
