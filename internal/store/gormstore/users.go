package gormstore

import (
	"context"
	"time"

	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return mapErr(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where(query, args...).
		First(&u).
		Error
	if err != nil {
		return nil, mapErr(err)
	}

	return &u, nil
}

func (r *userRepo) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepo) ByEmailOrUsername(ctx context.Context, identifier string) (*model.User, error) {
	return r.first(ctx, "email = ? OR username = ?", identifier, identifier)
}

func (r *userRepo) ByVerificationCode(ctx context.Context, code string, now time.Time) (*model.User, error) {
	if code == "" {
		return nil, store.ErrNotFound
	}

	return r.first(ctx, "verification_code = ? AND verification_expires_at > ?", code, now)
}

func (r *userRepo) ByResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}

	return r.first(ctx, "reset_token = ? AND reset_expires_at > ?", token, now)
}

func (r *userRepo) Update(ctx context.Context, id string, upd store.UserUpdate) error {
	cols := updateColumns(upd)
	if len(cols) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return mapErr(res.Error)
	}

	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}

	return nil
}

func updateColumns(upd store.UserUpdate) map[string]any {
	cols := map[string]any{}

	if upd.FirstName != nil {
		cols["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		cols["last_name"] = *upd.LastName
	}
	if upd.Email != nil {
		cols["email"] = *upd.Email
	}
	if upd.Username != nil {
		cols["username"] = *upd.Username
	}
	if upd.PasswordHash != nil {
		cols["password_hash"] = *upd.PasswordHash
	}
	if upd.Verified != nil {
		cols["verified"] = *upd.Verified
	}
	if upd.Bio != nil {
		cols["bio"] = *upd.Bio
	}
	if upd.Country != nil {
		cols["country"] = *upd.Country
	}
	if upd.Phone != nil {
		cols["phone"] = *upd.Phone
	}
	if upd.ProfilePicture != nil {
		cols["profile_picture"] = *upd.ProfilePicture
	}
	if upd.Level != nil {
		cols["level"] = *upd.Level
	}
	if upd.LastLoginAt != nil {
		cols["last_login_at"] = *upd.LastLoginAt
	}
	if upd.Step1 != nil {
		cols["onboard_step1"] = *upd.Step1
	}
	if upd.Step2 != nil {
		cols["onboard_step2"] = *upd.Step2
	}
	if upd.Step3 != nil {
		cols["onboard_step3"] = *upd.Step3
	}
	if upd.Completed != nil {
		cols["onboard_completed"] = *upd.Completed
	}

	if t := upd.Verification; t != nil {
		cols["verification_code"] = t.Token
		cols["verification_expires_at"] = tokenExpiry(t)
	}
	if t := upd.Reset; t != nil {
		cols["reset_token"] = t.Token
		cols["reset_expires_at"] = tokenExpiry(t)
	}
	if t := upd.EmailChange; t != nil {
		cols["email_change_code"] = t.Token
		cols["email_change_expires_at"] = tokenExpiry(t)
	}

	return cols
}

// tokenExpiry returns nil for a cleared pair so the column becomes NULL
func tokenExpiry(t *store.TokenUpdate) any {
	if t.Token == "" || t.ExpiresAt == nil {
		return nil
	}

	return *t.ExpiresAt
}

func (r *userRepo) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var n int64

	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&n).
		Error
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *userRepo) ListExcluding(ctx context.Context, exclude []string, limit int) ([]model.User, error) {
	q := r.db.WithContext(ctx).Order("created_at desc")
	// NOT IN with an empty list matches nothing
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}

	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var users []model.User

	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// tokenSlots pairs every code column with its expiry column
var tokenSlots = [][2]string{
	{"verification_code", "verification_expires_at"},
	{"reset_token", "reset_expires_at"},
	{"email_change_code", "email_change_expires_at"},
}

func (r *userRepo) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var cleared int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, slot := range tokenSlots {
			res := tx.Model(&model.User{}).
				Where(slot[1]+" IS NOT NULL AND "+slot[1]+" < ?", now).
				Updates(map[string]any{slot[0]: "", slot[1]: nil})
			if res.Error != nil {
				return res.Error
			}
			cleared += res.RowsAffected
		}

		return nil
	})

	return cleared, err
}
