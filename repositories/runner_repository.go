package repositories

import (
	"context"
	"errors"
	"strings"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IRunnerRepository is the store contract for runners.
type IRunnerRepository interface {
	Create(ctx context.Context, runner *models.Runner) error
	FindByID(ctx context.Context, id uint) (*models.Runner, error)
	FindByAuthUser(ctx context.Context, authUser string) (*models.Runner, error)
	FindByEmail(ctx context.Context, email string) (*models.Runner, error)
	FindByICalToken(ctx context.Context, token string) (*models.Runner, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	List(ctx context.Context, nameQuery string) ([]models.Runner, error)
	ListEmails(ctx context.Context) ([]string, error)
	CountWithEmail(ctx context.Context) (int64, error)
}

// RunnerRepository implements IRunnerRepository with gorm.
type RunnerRepository struct {
	db *gorm.DB
}

// NewRunnerRepository returns a RunnerRepository on db.
func NewRunnerRepository(db *gorm.DB) IRunnerRepository {
	return &RunnerRepository{db: db}
}

func (r *RunnerRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

func (r *RunnerRepository) Create(ctx context.Context, runner *models.Runner) error {
	if runner == nil || strings.TrimSpace(runner.Email) == "" {
		return errors.New("runner email is required")
	}
	if err := r.getDB(ctx).Create(runner).Error; err != nil {
		configslog.Log.Error("RunnerRepository.Create failed", zap.String("email", runner.Email), zap.Error(err))
		return err
	}
	return nil
}

func (r *RunnerRepository) FindByID(ctx context.Context, id uint) (*models.Runner, error) {
	var runner models.Runner
	if err := r.getDB(ctx).First(&runner, id).Error; err != nil {
		return nil, r.lookupErr("FindByID", err)
	}
	return &runner, nil
}

func (r *RunnerRepository) FindByAuthUser(ctx context.Context, authUser string) (*models.Runner, error) {
	return r.findOne(ctx, "FindByAuthUser", "auth_user = ?", authUser)
}

// FindByEmail compares case-insensitively.
func (r *RunnerRepository) FindByEmail(ctx context.Context, email string) (*models.Runner, error) {
	return r.findOne(ctx, "FindByEmail", "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindByICalToken resolves a feed token. Should duplicates ever exist the lowest id wins.
func (r *RunnerRepository) FindByICalToken(ctx context.Context, token string) (*models.Runner, error) {
	return r.findOne(ctx, "FindByICalToken", "ical_token = ?", token)
}

func (r *RunnerRepository) findOne(ctx context.Context, op string, query string, arg interface{}) (*models.Runner, error) {
	var runner models.Runner
	err := r.getDB(ctx).Where(query, arg).Order("id ASC").First(&runner).Error
	if err != nil {
		return nil, r.lookupErr(op, err)
	}
	return &runner, nil
}

func (r *RunnerRepository) lookupErr(op string, err error) error {
	err = notFound(err)
	if !errors.Is(err, ErrNotFound) {
		configslog.Log.Error("RunnerRepository."+op+" failed", zap.Error(err))
	}
	return err
}

func (r *RunnerRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	result := r.getDB(ctx).Model(&models.Runner{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		configslog.Log.Error("RunnerRepository.Update failed", zap.Uint("runner_id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns runners ordered by name; nameQuery filters case-insensitively on the display name.
func (r *RunnerRepository) List(ctx context.Context, nameQuery string) ([]models.Runner, error) {
	var runners []models.Runner
	q := r.getDB(ctx).Model(&models.Runner{})
	if term := strings.TrimSpace(nameQuery); term != "" {
		q = q.Where("LOWER(display_name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	if err := q.Order("display_name ASC").Order("id ASC").Find(&runners).Error; err != nil {
		configslog.Log.Error("RunnerRepository.List failed", zap.String("query", nameQuery), zap.Error(err))
		return nil, err
	}
	return runners, nil
}

// ListEmails returns every non-empty runner email once.
func (r *RunnerRepository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.getDB(ctx).Model(&models.Runner{}).
		Where("email IS NOT NULL AND email <> ''").
		Distinct("email").
		Order("email ASC").
		Pluck("email", &emails).Error
	if err != nil {
		configslog.Log.Error("RunnerRepository.ListEmails failed", zap.Error(err))
		return nil, err
	}
	return emails, nil
}

func (r *RunnerRepository) CountWithEmail(ctx context.Context) (int64, error) {
	var n int64
	err := r.getDB(ctx).Model(&models.Runner{}).Where("email IS NOT NULL AND email <> ''").Count(&n).Error
	if err != nil {
		configslog.Log.Error("RunnerRepository.CountWithEmail failed", zap.Error(err))
		return 0, err
	}
	return n, nil
}

var _ IRunnerRepository = (*RunnerRepository)(nil)
