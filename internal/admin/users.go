package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/auth"
	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/storage"
	"github.com/Spok95/showcase-judging/internal/validate"
)

var ErrSelfDelete = errors.New("admins cannot delete their own account")

type Store interface {
	Ping(ctx context.Context) error
	CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, u db.ProfileUpdate) (*models.Profile, error)
	SetProfileRole(ctx context.Context, userID string, role models.Role) error
	DeleteProfile(ctx context.Context, id string) ([]string, error)
	ListUsersPage(ctx context.Context, page, size int, search string) (*models.UserPage, error)
	ReferencedFiles(ctx context.Context) (map[string]struct{}, error)
}

type Files interface {
	Put(bucket, name string, r io.Reader) (string, error)
	Get(bucket, name string) ([]byte, error)
	Delete(bucket, name string) error
	DeletePublic(publicPath string) error
	List(bucket string) ([]storage.FileInfo, error)
}

type TokenProber interface {
	Probe() error
}

type Service struct {
	store  Store
	files  Files
	tokens TokenProber
	log    *zap.Logger
}

func NewService(store Store, files Files, tokens TokenProber, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, files: files, tokens: tokens, log: log.With(zap.String("component", "admin"))}
}

type CreateUserInput struct {
	Email       string      `json:"email" validate:"required,email,max=254"`
	Password    string      `json:"password" validate:"required,min=8,max=72"`
	FullName    string      `json:"full_name" validate:"required,max=200"`
	Role        models.Role `json:"role" validate:"omitempty,oneof=user judge admin"`
	AvatarURL   *string     `json:"avatar_url" validate:"omitempty,link"`
	LinkedInURL *string     `json:"linkedin_url" validate:"omitempty,link"`
	TwitterURL  *string     `json:"twitter_url" validate:"omitempty,link"`
	WebsiteURL  *string     `json:"website_url" validate:"omitempty,link"`
}

type UpdateUserInput struct {
	FullName    *string      `json:"full_name" validate:"omitempty,min=1,max=200"`
	Role        *models.Role `json:"role" validate:"omitempty,oneof=user judge admin"`
	Password    *string      `json:"password" validate:"omitempty,min=8,max=72"`
	AvatarURL   *string      `json:"avatar_url" validate:"omitempty,link"`
	LinkedInURL *string      `json:"linkedin_url" validate:"omitempty,link"`
	TwitterURL  *string      `json:"twitter_url" validate:"omitempty,link"`
	WebsiteURL  *string      `json:"website_url" validate:"omitempty,link"`
}

// RoleAssignment: единственная форма запроса назначения роли, с полем user_id.
type RoleAssignment struct {
	UserID string      `json:"user_id" validate:"required"`
	Role   models.Role `json:"role" validate:"required,oneof=user judge admin"`
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*models.Profile, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, validate.Invalid("%v", err)
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	p, err := s.store.CreateProfile(ctx, models.Profile{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		AvatarURL:    in.AvatarURL,
		LinkedInURL:  in.LinkedInURL,
		TwitterURL:   in.TwitterURL,
		WebsiteURL:   in.WebsiteURL,
		Role:         role,
	})
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", in.Email, err)
	}
	s.log.Info("user created", zap.String("user_id", p.ID), zap.String("role", string(p.Role)))
	return p, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.Profile, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	u := db.ProfileUpdate{
		FullName:    in.FullName,
		AvatarURL:   in.AvatarURL,
		LinkedInURL: in.LinkedInURL,
		TwitterURL:  in.TwitterURL,
		WebsiteURL:  in.WebsiteURL,
		Role:        in.Role,
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, validate.Invalid("%v", err)
		}
		u.PasswordHash = &hash
	}
	p, err := s.store.UpdateProfile(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return p, nil
}

// DeleteUser удаляет профиль со всеми зависимыми строками, затем файлы пользователя.
// Ошибки удаления файлов не возвращаются: осиротевшие файлы подберёт очистка.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDelete
	}
	files, err := s.store.DeleteProfile(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	removed := 0
	for _, f := range files {
		if err := s.files.DeletePublic(f); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("user file not removed", zap.String("user_id", id), zap.String("path", f), zap.Error(err))
			continue
		}
		removed++
	}
	s.log.Info("user deleted", zap.String("user_id", id), zap.Int("files_removed", removed))
	return nil
}

func (s *Service) AssignRole(ctx context.Context, in RoleAssignment) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if err := s.store.SetProfileRole(ctx, in.UserID, in.Role); err != nil {
		return fmt.Errorf("assign role to %s: %w", in.UserID, err)
	}
	s.log.Info("role assigned", zap.String("user_id", in.UserID), zap.String("role", string(in.Role)))
	return nil
}

func (s *Service) ListUsers(ctx context.Context, page, size int, search string) (*models.UserPage, error) {
	return s.store.ListUsersPage(ctx, page, size, strings.TrimSpace(search))
}
