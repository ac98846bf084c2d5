package api

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/admin"
	"github.com/Spok95/showcase-judging/internal/auth"
	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/notify"
)

type ProfileStore interface {
	CreateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type ProductStore interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id string, u db.ProductUpdate) (*models.Product, error)
	SetProductStatus(ctx context.Context, id string, st models.ProductStatus) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddScreenshot(ctx context.Context, productID, imageURL string, position int) (*models.Screenshot, error)
	ListScreenshots(ctx context.Context, productID string) ([]models.Screenshot, error)
	AddMaker(ctx context.Context, productID, profileID string) error
	RemoveMaker(ctx context.Context, productID, profileID string) error
	ListMakers(ctx context.Context, productID string) ([]models.Maker, error)
	IsMaker(ctx context.Context, productID, profileID string) (bool, error)
	SetUpvote(ctx context.Context, productID, profileID string, on bool) (int, error)
}

type JudgingStore interface {
	ListCriteria(ctx context.Context) ([]models.JudgingCriteria, error)
	GetCriteria(ctx context.Context, id string) (*models.JudgingCriteria, error)
	CreateCriteria(ctx context.Context, c models.JudgingCriteria) (*models.JudgingCriteria, error)
	UpdateCriteria(ctx context.Context, c models.JudgingCriteria) (*models.JudgingCriteria, error)
	DeleteCriteria(ctx context.Context, id string) error
	AssignJudge(ctx context.Context, judgeID, productID string) error
	UnassignJudge(ctx context.Context, judgeID, productID string) error
	IsJudgeAssigned(ctx context.Context, judgeID, productID string) (bool, error)
	UpsertSubmission(ctx context.Context, s models.JudgingSubmission) error
	UpsertNote(ctx context.Context, n models.JudgingNote) error
}

type Store interface {
	ProfileStore
	ProductStore
	JudgingStore
}

type Evaluator interface {
	Evaluation(ctx context.Context, productID string) (*models.Evaluation, error)
}

// Reporter produces a downloadable artifact for a product.
type Reporter interface {
	Export(ctx context.Context, productID string) ([]byte, string, error)
}

type Certifier interface {
	Generate(ctx context.Context, productID string) ([]byte, string, error)
}

type SummaryInvalidator interface {
	Invalidate(ctx context.Context, productID string)
	InvalidateAll(ctx context.Context)
}

type Files interface {
	Put(bucket, name string, r io.Reader) (string, error)
	Path(bucket, name string) (string, error)
}

type Deps struct {
	Store        Store
	Evaluations  Evaluator
	Exports      Reporter
	Certificates Certifier
	Admin        *admin.Service
	Files        Files
	Tokens       *auth.Tokens
	// Cache may be nil.
	Cache  SummaryInvalidator
	Notify notify.Notifier
	Log    *zap.Logger
	// CORSOrigins пустой: разрешены все источники.
	CORSOrigins []string
}
