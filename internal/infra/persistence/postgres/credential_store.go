package postgres

import (
	"context"
	"time"

	"miniblog/internal/domain/entity"
	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/domain/repository"
	"miniblog/internal/errors"
	"miniblog/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// credentialStore implements repository.CredentialStore on the credentials table.
type credentialStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewCredentialStore is the constructor for credentialStore.
func NewCredentialStore(db *gorm.DB, timeout time.Duration) repository.CredentialStore {
	return &credentialStore{
		db:      db,
		timeout: timeout,
	}
}

// Load returns every credential ordered by insertion.
func (repo *credentialStore) Load(ctx context.Context) ([]*entity.User, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var rows []model.CredentialModel
	if err := repo.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.WithStack(domainerrors.NewStorageError(err, "failed to load credentials"))
	}

	users := make([]*entity.User, 0, len(rows))
	for i := range rows {
		users = append(users, toUserDomain(&rows[i]))
	}

	return users, nil
}

// Save makes the table match users: new usernames are inserted in order,
// changed hashes are updated and missing usernames are deleted.
func (repo *credentialStore) Save(ctx context.Context, users []*entity.User) error {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	// Nested inside Execute this becomes a savepoint.
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []model.CredentialModel
		if err := tx.Order("id ASC").Find(&existing).Error; err != nil {
			return domainerrors.NewStorageError(err, "failed to read credentials before save")
		}

		plan, err := planSave(existing, users)
		if err != nil {
			return err
		}

		if len(plan.deletes) > 0 {
			if err := tx.Where("id IN ?", plan.deletes).Delete(&model.CredentialModel{}).Error; err != nil {
				return domainerrors.NewStorageError(err, "failed to delete credentials")
			}
		}

		for i := range plan.updates {
			row := &plan.updates[i]
			if err := tx.Model(row).Update("password_hash", row.PasswordHash).Error; err != nil {
				return domainerrors.NewStorageError(err, "failed to update credential")
			}
		}

		if len(plan.inserts) > 0 {
			if err := tx.Create(&plan.inserts).Error; err != nil {
				if isUniqueConstraintViolation(err) {
					return domainerrors.ErrUserAlreadyExists.WrapMessage("username taken by a concurrent writer")
				}

				return domainerrors.NewStorageError(err, "failed to insert credentials")
			}
		}

		return nil
	})

	return errors.WithStack(err)
}

func (repo *credentialStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if repo.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, repo.timeout)
}

type savePlan struct {
	inserts []model.CredentialModel
	updates []model.CredentialModel
	deletes []uint64
}

// planSave diffs the stored rows against the desired collection.
func planSave(existing []model.CredentialModel, users []*entity.User) (savePlan, error) {
	byUsername := make(map[string]model.CredentialModel, len(existing))
	for _, row := range existing {
		byUsername[row.Username] = row
	}

	var plan savePlan
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		if _, dup := seen[u.Username]; dup {
			return savePlan{}, domainerrors.ErrUserAlreadyExists.WrapMessage("duplicate username in collection")
		}
		seen[u.Username] = struct{}{}

		row, ok := byUsername[u.Username]
		switch {
		case !ok:
			plan.inserts = append(plan.inserts, *fromUserDomain(u))
		case row.PasswordHash != u.PasswordHash:
			row.PasswordHash = u.PasswordHash
			plan.updates = append(plan.updates, row)
		}
	}

	for _, row := range existing {
		if _, keep := seen[row.Username]; !keep {
			plan.deletes = append(plan.deletes, row.ID)
		}
	}

	return plan, nil
}

func toUserDomain(data *model.CredentialModel) *entity.User {
	return &entity.User{
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
	}
}

func fromUserDomain(data *entity.User) *model.CredentialModel {
	return &model.CredentialModel{
		Username:     data.Username,
		PasswordHash: data.PasswordHash,
	}
}
