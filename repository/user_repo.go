package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"codetrack/model"
)

func (r *Repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return model.User{}, err
	}
	if count > 0 {
		return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateEmail, user.Email)
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.LastActiveDate = now
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateEmail, user.Email)
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, fmt.Errorf("%w: user", model.ErrNotFound)
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID primitive.ObjectID) (model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, fmt.Errorf("%w: user %s", model.ErrNotFound, userID.Hex())
	}
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]model.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var users []model.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) UpdateUserPreferences(ctx context.Context, userID primitive.ObjectID, prefs model.Preferences) error {
	return r.updateUser(ctx, userID, bson.M{"preferences": prefs})
}

func (r *Repository) UpdateUserPlatformUsernames(ctx context.Context, userID primitive.ObjectID, names model.PlatformUsernames) error {
	return r.updateUser(ctx, userID, bson.M{"platformUsernames": names})
}

// UpdateUserStatistics replaces the persisted summary wholesale. Callers
// are responsible for never lowering bestStreak.
func (r *Repository) UpdateUserStatistics(ctx context.Context, userID primitive.ObjectID, stats model.UserStatistics) error {
	return r.updateUser(ctx, userID, bson.M{"statistics": stats})
}

// IncrementUserStat bumps one statistics counter, e.g.
// "totalProblemsSolved" or "totalRevisionCount".
func (r *Repository) IncrementUserStat(ctx context.Context, userID primitive.ObjectID, field string, delta int) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$inc": bson.M{"statistics." + field: delta},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, userID.Hex())
	}
	return nil
}

func (r *Repository) TouchLastActive(ctx context.Context, userID primitive.ObjectID) error {
	return r.updateUser(ctx, userID, bson.M{"lastActiveDate": time.Now()})
}

func (r *Repository) updateUser(ctx context.Context, userID primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, userID.Hex())
	}
	return nil
}
