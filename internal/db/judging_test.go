//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"math"
	"testing"

	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/testutil/testdb"
)

func TestJudgingSummary(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	maker := mustProfile(t, h, "maker@example.org", "Maker", "user")
	j1 := mustProfile(t, h, "j1@example.org", "Judge One", "judge")
	j2 := mustProfile(t, h, "j2@example.org", "Judge Two", "judge")

	p, err := db.CreateProduct(ctx, h.DB, models.Product{Name: "Rocket", Status: models.StatusPending, CreatedBy: maker})
	if err != nil {
		t.Fatal(err)
	}

	rating, err := db.CreateCriteria(ctx, h.DB, models.JudgingCriteria{
		Name: "Innovation", Type: models.CriteriaRating, Weight: 2, MinValue: ptrInt(1), MaxValue: ptrInt(10), Position: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	boolean, err := db.CreateCriteria(ctx, h.DB, models.JudgingCriteria{
		Name: "Ready", Type: models.CriteriaBoolean, Weight: 1, Position: 2,
	})
	if err != nil {
		t.Fatal(err)
	}

	subs := []models.JudgingSubmission{
		{JudgeID: j1, ProductID: p.ID, CriteriaID: rating.ID, RatingValue: ptrFloat(8)},
		{JudgeID: j2, ProductID: p.ID, CriteriaID: rating.ID, RatingValue: ptrFloat(6)},
		{JudgeID: j1, ProductID: p.ID, CriteriaID: boolean.ID, BooleanValue: ptrBool(true)},
		{JudgeID: j2, ProductID: p.ID, CriteriaID: boolean.ID, BooleanValue: ptrBool(false)},
	}
	for _, s := range subs {
		if err := db.UpsertSubmission(ctx, h.DB, s); err != nil {
			t.Fatal(err)
		}
	}
	// повторный upsert меняет значение, а не добавляет строку
	if err := db.UpsertSubmission(ctx, h.DB, models.JudgingSubmission{
		JudgeID: j2, ProductID: p.ID, CriteriaID: rating.ID, RatingValue: ptrFloat(4),
	}); err != nil {
		t.Fatal(err)
	}

	sum, err := db.GetJudgingSummary(ctx, h.DB, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum) != 2 {
		t.Fatalf("expected 2 summary rows, got %d", len(sum))
	}
	if sum[0].AvgRating == nil || math.Abs(*sum[0].AvgRating-6) > 1e-9 || sum[0].JudgeCount != 2 {
		t.Fatalf("rating row: %+v", sum[0])
	}
	if sum[1].AvgRating != nil || sum[1].TrueCount != 1 || sum[1].FalseCount != 1 {
		t.Fatalf("boolean row: %+v", sum[1])
	}

	judges, err := db.ListEvaluatingJudges(ctx, h.DB, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(judges) != 2 {
		t.Fatalf("expected 2 judges, got %d", len(judges))
	}
}

func TestEvaluatingJudgesKeepFirstSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	maker := mustProfile(t, h, "maker@example.org", "Maker", "user")
	first := mustProfile(t, h, "first@example.org", "First Judge", "judge")
	second := mustProfile(t, h, "second@example.org", "Second Judge", "judge")
	p, err := db.CreateProduct(ctx, h.DB, models.Product{Name: "Rocket", Status: models.StatusApproved, CreatedBy: maker})
	if err != nil {
		t.Fatal(err)
	}
	cr, err := db.CreateCriteria(ctx, h.DB, models.JudgingCriteria{
		Name: "Innovation", Type: models.CriteriaRating, Weight: 1, MinValue: ptrInt(1), MaxValue: ptrInt(10),
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, judge := range []string{first, second, first} {
		if err := db.UpsertSubmission(ctx, h.DB, models.JudgingSubmission{
			JudgeID: judge, ProductID: p.ID, CriteriaID: cr.ID, RatingValue: ptrFloat(5),
		}); err != nil {
			t.Fatal(err)
		}
	}

	judges, err := db.ListEvaluatingJudges(ctx, h.DB, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(judges) != 2 || judges[0].ID != first || judges[1].ID != second {
		t.Fatalf("editing a submission must not reorder judges: %+v", judges)
	}
}

func TestUpvoteIdempotent(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	maker := mustProfile(t, h, "maker@example.org", "Maker", "user")
	voter := mustProfile(t, h, "voter@example.org", "Voter", "user")
	p, err := db.CreateProduct(ctx, h.DB, models.Product{Name: "Rocket", Status: models.StatusApproved, CreatedBy: maker})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		n, err := db.SetUpvote(ctx, h.DB, p.ID, voter, true)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Fatalf("upvotes after repeated upvote = %d, want 1", n)
		}
	}
	n, err := db.SetUpvote(ctx, h.DB, p.ID, voter, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("upvotes after removal = %d, want 0", n)
	}
}

func TestMakersAndDeleteProfile(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	maker := mustProfile(t, h, "maker@example.org", "Maker", "user")
	helper := mustProfile(t, h, "helper@example.org", "Helper", "user")
	img := "/files/product-images/a.png"
	p, err := db.CreateProduct(ctx, h.DB, models.Product{Name: "Rocket", Status: models.StatusDraft, CreatedBy: maker, ImageURL: &img})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AddMaker(ctx, h.DB, p.ID, helper); err != nil {
		t.Fatal(err)
	}
	makers, err := db.ListMakers(ctx, h.DB, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(makers) != 2 || !makers[0].IsCreator || makers[0].ProfileID != maker {
		t.Fatalf("creator must be listed first: %+v", makers)
	}
	if err := db.RemoveMaker(ctx, h.DB, p.ID, maker); err != db.ErrCreatorMaker {
		t.Fatalf("expected ErrCreatorMaker, got %v", err)
	}

	files, err := db.DeleteProfile(ctx, h.DB, maker)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0] != img {
		t.Fatalf("files: %v", files)
	}
	if _, err := db.GetProduct(ctx, h.DB, p.ID); err != db.ErrNotFound {
		t.Fatalf("product must be deleted with its creator, got %v", err)
	}
}

func TestListUsersPage(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	for _, e := range []string{"a@example.org", "b@example.org", "c@example.org"} {
		mustProfile(t, h, e, e, "user")
	}
	page, err := db.ListUsersPage(ctx, h.DB, 1, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Users) != 2 || page.Total != 3 {
		t.Fatalf("page 1: %d users, total %d", len(page.Users), page.Total)
	}
	page, err = db.ListUsersPage(ctx, h.DB, 5, 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Users) != 0 || page.Total != 3 {
		t.Fatalf("page 5: %d users, total %d", len(page.Users), page.Total)
	}
}

func mustProfile(t *testing.T, h *testdb.DBHandle, email, name, role string) string {
	t.Helper()
	id, err := testdb.SeedProfile(context.Background(), h.DB, email, name, role, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }
func ptrBool(v bool) *bool        { return &v }
