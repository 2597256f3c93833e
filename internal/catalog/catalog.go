package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no entry matches the requested name.
var ErrNotFound = errors.New("catalog entry not found")

// Logger is the logging surface the service needs. The logging package
// provides an adapter from zerolog.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Service stores and retrieves region entries.
type Service struct {
	db    *gorm.DB
	log   Logger
	names *nameCache
}

// NewService creates a catalog service on an open database connection.
func NewService(db *gorm.DB, log Logger) *Service {
	return &Service{db: db, log: log, names: newNameCache()}
}

// Migrate creates or updates the catalog tables.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}

	// seed instance info on first run
	if err := s.db.First(&CatalogInfo{}).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&CatalogInfo{
			Name:        "regions",
			Description: "region catalog",
		}).Error; err != nil {
			return fmt.Errorf("failed to create catalog info entry: %w", err)
		}
	}

	s.log.Info("Catalog schema ready")
	return nil
}

// Save inserts the entry, or updates the stored row when one with the
// same name already exists.
func (s *Service) Save(ctx context.Context, e *Entry) error {
	if id, ok := s.names.Get(e.Name); ok {
		// Update only the mutable columns; a full Save would overwrite
		// created_at with the fresh entry's zero value.
		e.ID = id
		err := s.db.WithContext(ctx).Model(&Entry{}).Where("id = ?", id).
			Updates(map[string]any{
				"name":         e.Name,
				"frame":        e.Frame,
				"center":       e.Center,
				"radius_value": e.RadiusValue,
				"radius_unit":  e.RadiusUnit,
				"meta":         e.Meta,
				"visual":       e.Visual,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update entry %q: %w", e.Name, err)
		}
		s.log.Debug("Updated catalog entry", "name", e.Name, "frame", e.Frame)
		return nil
	}

	var existing Entry
	err := s.db.WithContext(ctx).Where("name = ?", e.Name).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
				return fmt.Errorf("failed to create entry %q: %w", e.Name, err)
			}
			s.names.Set(e.Name, e.ID)
			s.log.Debug("Created catalog entry", "name", e.Name, "frame", e.Frame)
			return nil
		}
		return fmt.Errorf("failed to look up entry %q: %w", e.Name, err)
	}

	e.ID = existing.ID
	e.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Save(e).Error; err != nil {
		return fmt.Errorf("failed to update entry %q: %w", e.Name, err)
	}
	s.names.Set(e.Name, e.ID)
	s.log.Debug("Updated catalog entry", "name", e.Name, "frame", e.Frame)
	return nil
}

// GetByName returns the entry with the given name.
func (s *Service) GetByName(ctx context.Context, name string) (*Entry, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entry %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up entry %q: %w", name, err)
	}
	s.names.Set(e.Name, e.ID)
	return &e, nil
}

// List returns all entries ordered by name.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("name").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Delete removes the entry with the given name.
func (s *Service) Delete(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).Where("name = ?", name).Delete(&Entry{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete entry %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entry %q: %w", name, ErrNotFound)
	}
	s.names.Delete(name)
	s.log.Debug("Deleted catalog entry", "name", name)
	return nil
}

// Count returns the number of stored entries.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}
