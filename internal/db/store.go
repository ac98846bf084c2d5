package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/showcase-judging/internal/models"
)

// Store привязывает функции пакета к конкретному *sql.DB, чтобы сервисы
// могли принимать узкие интерфейсы и подменяться в тестах.
type Store struct {
	DB *sql.DB
}

func NewStore(database *sql.DB) *Store { return &Store{DB: database} }

func (s *Store) Ping(ctx context.Context) error { return Ping(ctx, s.DB) }

// profiles

func (s *Store) CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	return CreateProfile(ctx, s.DB, p)
}
func (s *Store) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return GetProfileByID(ctx, s.DB, id)
}
func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return GetProfileByEmail(ctx, s.DB, email)
}
func (s *Store) UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (*models.Profile, error) {
	return UpdateProfile(ctx, s.DB, id, u)
}
func (s *Store) SetProfileRole(ctx context.Context, userID string, role models.Role) error {
	return SetProfileRole(ctx, s.DB, userID, role)
}
func (s *Store) DeleteProfile(ctx context.Context, id string) ([]string, error) {
	return DeleteProfile(ctx, s.DB, id)
}
func (s *Store) ListUsersPage(ctx context.Context, page, size int, search string) (*models.UserPage, error) {
	return ListUsersPage(ctx, s.DB, page, size, search)
}
func (s *Store) ProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	return ProfilesByIDs(ctx, s.DB, ids)
}

// products

func (s *Store) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	return CreateProduct(ctx, s.DB, p)
}
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return GetProduct(ctx, s.DB, id)
}
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	return ListProducts(ctx, s.DB, f)
}
func (s *Store) UpdateProduct(ctx context.Context, id string, u ProductUpdate) (*models.Product, error) {
	return UpdateProduct(ctx, s.DB, id, u)
}
func (s *Store) SetProductStatus(ctx context.Context, id string, st models.ProductStatus) (*models.Product, error) {
	return SetProductStatus(ctx, s.DB, id, st)
}
func (s *Store) DeleteProduct(ctx context.Context, id string) error { return DeleteProduct(ctx, s.DB, id) }
func (s *Store) AddScreenshot(ctx context.Context, productID, imageURL string, position int) (*models.Screenshot, error) {
	return AddScreenshot(ctx, s.DB, productID, imageURL, position)
}
func (s *Store) ListScreenshots(ctx context.Context, productID string) ([]models.Screenshot, error) {
	return ListScreenshots(ctx, s.DB, productID)
}
func (s *Store) AddMaker(ctx context.Context, productID, profileID string) error {
	return AddMaker(ctx, s.DB, productID, profileID)
}
func (s *Store) RemoveMaker(ctx context.Context, productID, profileID string) error {
	return RemoveMaker(ctx, s.DB, productID, profileID)
}
func (s *Store) ListMakers(ctx context.Context, productID string) ([]models.Maker, error) {
	return ListMakers(ctx, s.DB, productID)
}
func (s *Store) IsMaker(ctx context.Context, productID, profileID string) (bool, error) {
	return IsMaker(ctx, s.DB, productID, profileID)
}
func (s *Store) SetUpvote(ctx context.Context, productID, profileID string, on bool) (int, error) {
	return SetUpvote(ctx, s.DB, productID, profileID, on)
}

// judging

func (s *Store) ListCriteria(ctx context.Context) ([]models.JudgingCriteria, error) {
	return ListCriteria(ctx, s.DB)
}
func (s *Store) GetCriteria(ctx context.Context, id string) (*models.JudgingCriteria, error) {
	return GetCriteria(ctx, s.DB, id)
}
func (s *Store) CreateCriteria(ctx context.Context, c models.JudgingCriteria) (*models.JudgingCriteria, error) {
	return CreateCriteria(ctx, s.DB, c)
}
func (s *Store) UpdateCriteria(ctx context.Context, c models.JudgingCriteria) (*models.JudgingCriteria, error) {
	return UpdateCriteria(ctx, s.DB, c)
}
func (s *Store) DeleteCriteria(ctx context.Context, id string) error { return DeleteCriteria(ctx, s.DB, id) }
func (s *Store) AssignJudge(ctx context.Context, judgeID, productID string) error {
	return AssignJudge(ctx, s.DB, judgeID, productID)
}
func (s *Store) UnassignJudge(ctx context.Context, judgeID, productID string) error {
	return UnassignJudge(ctx, s.DB, judgeID, productID)
}
func (s *Store) IsJudgeAssigned(ctx context.Context, judgeID, productID string) (bool, error) {
	return IsJudgeAssigned(ctx, s.DB, judgeID, productID)
}
func (s *Store) ListAssignedJudgeIDs(ctx context.Context, productID string) ([]string, error) {
	return ListAssignedJudgeIDs(ctx, s.DB, productID)
}
func (s *Store) ListEvaluatingJudges(ctx context.Context, productID string) ([]models.Judge, error) {
	return ListEvaluatingJudges(ctx, s.DB, productID)
}
func (s *Store) UpsertSubmission(ctx context.Context, sub models.JudgingSubmission) error {
	return UpsertSubmission(ctx, s.DB, sub)
}
func (s *Store) ListSubmissions(ctx context.Context, productID string) ([]models.JudgingSubmission, error) {
	return ListSubmissions(ctx, s.DB, productID)
}
func (s *Store) UpsertNote(ctx context.Context, n models.JudgingNote) error { return UpsertNote(ctx, s.DB, n) }
func (s *Store) ListNotes(ctx context.Context, productID string) ([]models.JudgingNote, error) {
	return ListNotes(ctx, s.DB, productID)
}
func (s *Store) GetJudgingSummary(ctx context.Context, productID string) ([]models.CriterionSummary, error) {
	return GetJudgingSummary(ctx, s.DB, productID)
}
func (s *Store) ReferencedFiles(ctx context.Context) (map[string]struct{}, error) {
	return ReferencedFiles(ctx, s.DB)
}
