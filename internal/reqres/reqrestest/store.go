package reqrestest

import (
	"context"
	"errors"
	"fmt"

	"calc-harness/internal/reqres"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var errNoUser = errors.New("no such user")

type userRecord struct {
	ID        int    `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	FirstName string
	LastName  string
	Avatar    string
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toUser() reqres.User {
	return reqres.User{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Avatar:    r.Avatar,
	}
}

// Store holds the demo users in an in-memory SQLite database.
type Store struct {
	db *gorm.DB
}

// OpenStore creates an in-memory store seeded with users.
func OpenStore(users []reqres.User) (*Store, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to :memory: is its own database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate users: %w", err), sqlDB.Close())
	}

	if len(users) > 0 {
		records := make([]userRecord, 0, len(users))
		for _, u := range users {
			records = append(records, userRecord{
				ID:        u.ID,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				Avatar:    u.Avatar,
			})
		}
		if err := db.Create(&records).Error; err != nil {
			return nil, errors.Join(fmt.Errorf("seed users: %w", err), sqlDB.Close())
		}
	}

	return &Store{db: db}, nil
}

// UserByID returns errNoUser when id is unknown.
func (s *Store) UserByID(ctx context.Context, id int) (reqres.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reqres.User{}, errNoUser
	}
	if err != nil {
		return reqres.User{}, fmt.Errorf("load user %d: %w", id, err)
	}
	return rec.toUser(), nil
}

// UserByEmail returns errNoUser when email is unknown.
func (s *Store) UserByEmail(ctx context.Context, email string) (reqres.User, error) {
	var rec userRecord
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reqres.User{}, errNoUser
	}
	if err != nil {
		return reqres.User{}, fmt.Errorf("load user %q: %w", email, err)
	}
	return rec.toUser(), nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
