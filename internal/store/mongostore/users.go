package mongostore

import (
	"context"
	"time"

	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userRepo struct {
	c *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	_, err := r.c.InsertOne(ctx, u)
	return mapErr(err)
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var u model.User
	if err := r.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapErr(err)
	}

	return &u, nil
}

func (r *userRepo) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) ByEmailOrUsername(ctx context.Context, identifier string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"username": identifier},
	}})
}

func (r *userRepo) ByVerificationCode(ctx context.Context, code string, now time.Time) (*model.User, error) {
	if code == "" {
		return nil, store.ErrNotFound
	}

	return r.findOne(ctx, bson.M{
		"verification_code":       code,
		"verification_expires_at": bson.M{"$gt": now},
	})
}

func (r *userRepo) ByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}

	return r.findOne(ctx, bson.M{
		"reset_token":      token,
		"reset_expires_at": bson.M{"$gt": now},
	})
}

func (r *userRepo) Update(ctx context.Context, id string, upd store.UserUpdate) error {
	set := bson.M{}

	if upd.FirstName != nil {
		set["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.Verified != nil {
		set["verified"] = *upd.Verified
	}
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Country != nil {
		set["country"] = *upd.Country
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.ProfilePicture != nil {
		set["profile_picture"] = *upd.ProfilePicture
	}
	if upd.Level != nil {
		set["level"] = *upd.Level
	}
	if upd.LastLoginAt != nil {
		set["last_login_at"] = *upd.LastLoginAt
	}
	if upd.Step1 != nil {
		set["onboarding.step1"] = *upd.Step1
	}
	if upd.Step2 != nil {
		set["onboarding.step2"] = *upd.Step2
	}
	if upd.Step3 != nil {
		set["onboarding.step3"] = *upd.Step3
	}
	if upd.Completed != nil {
		set["onboarding.completed"] = *upd.Completed
	}
	if t := upd.Verification; t != nil {
		set["verification_code"] = t.Token
		set["verification_expires_at"] = expiry(t)
	}
	if t := upd.Reset; t != nil {
		set["reset_token"] = t.Token
		set["reset_expires_at"] = expiry(t)
	}
	if t := upd.EmailChange; t != nil {
		set["email_change_code"] = t.Token
		set["email_change_expires_at"] = expiry(t)
	}

	if len(set) == 0 {
		return nil
	}

	set["updated_at"] = time.Now().UTC()

	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mapErr(err)
	}

	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}

	return nil
}

func expiry(t *store.TokenUpdate) *time.Time {
	if t.Token == "" {
		return nil
	}

	return t.ExpiresAt
}

func (r *userRepo) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{
		"username": username,
		"_id":      bson.M{"$ne": excludeID},
	})
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *userRepo) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]model.User, error) {
	cur, err := r.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepo) ListExcluding(ctx context.Context, exclude []string, limit int) ([]model.User, error) {
	filter := bson.M{}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	return r.find(ctx, filter, opts)
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

var tokenSlots = [][2]string{
	{"verification_code", "verification_expires_at"},
	{"reset_token", "reset_expires_at"},
	{"email_change_code", "email_change_expires_at"},
}

func (r *userRepo) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var cleared int64

	for _, slot := range tokenSlots {
		res, err := r.c.UpdateMany(ctx,
			bson.M{slot[1]: bson.M{"$lt": now}},
			bson.M{"$set": bson.M{slot[0]: "", slot[1]: nil}},
		)
		if err != nil {
			return cleared, err
		}
		cleared += res.ModifiedCount
	}

	return cleared, nil
}
