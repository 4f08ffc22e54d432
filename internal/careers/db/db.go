package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	rows "github.com/gartstein/careers/internal/careers/db/models"
	e "github.com/gartstein/careers/internal/careers/errors"
	"github.com/gartstein/careers/internal/careers/models"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Supported values for Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned for a Config.Driver other than the
// supported ones.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite database file or DSN; used when Driver is sqlite.
	Path string
}

func NewRepository(cfg *Config) (*Repository, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer; in-memory databases also vanish
		// when their only connection closes.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to configure sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&rows.Company{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	row := rows.FromDomain(company)
	result := r.db.WithContext(ctx).Create(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateSlug
		}
		return result.Error
	}
	company.CreatedAt = row.CreatedAt
	company.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) GetCompany(ctx context.Context, slug string) (*models.Company, error) {
	var row rows.Company
	result := r.db.WithContext(ctx).First(&row, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return row.ToDomain(), nil
}

// ListCompanies returns every company, newest first.
func (r *Repository) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	var list []rows.Company
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&list)
	if result.Error != nil {
		return nil, result.Error
	}
	out := make([]*models.Company, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToDomain())
	}
	return out, nil
}

// UpdateCompany replaces the top-level fields present in update and bumps
// updated_at. Slug and id are never written.
func (r *Repository) UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error {
	values := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if update.Name != nil {
		if *update.Name == "" {
			values["name"] = nil
		} else {
			values["name"] = *update.Name
		}
	}
	if update.Theme != nil {
		values["theme"] = datatypes.NewJSONType(*update.Theme)
	}
	if update.Sections != nil {
		values["sections"] = datatypes.NewJSONType(nonNil(*update.Sections))
	}
	if update.Jobs != nil {
		values["jobs"] = datatypes.NewJSONType(nonNil(*update.Jobs))
	}

	result := r.db.WithContext(ctx).Model(&rows.Company{}).
		Where("slug = ?", update.Slug).
		Updates(values)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCompany(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Delete(&rows.Company{}, "slug = ?", slug)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) CompanyExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&rows.Company{}).
		Where("slug = ?", slug).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
