package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
	"github.com/upkook/cx-metrics/internal/infrastructure/database/testdb"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	return repositories.NewStore(db), db
}

func details(t *testing.T, store *repositories.Store, surveyType string) repositories.DetailRepository {
	t.Helper()
	repo, err := store.Details(surveyType)
	if err != nil {
		t.Fatalf("Details(%s): %v", surveyType, err)
	}
	return repo
}

func saveNPS(t *testing.T, store *repositories.Store, name string, businessID uint) *entities.NPSSurvey {
	t.Helper()
	s := entities.NewNPSSurvey()
	entities.Assign(s, entities.SurveyAttributes{Name: name, BusinessID: businessID, Question: "How likely?"})
	if err := details(t, store, entities.TypeNPS).Save(context.Background(), s); err != nil {
		t.Fatalf("save nps: %v", err)
	}
	return s
}

func TestSaveKeepsIdentityInSync(t *testing.T) {
	ctx := context.Background()
	store, db := newStore(t)

	s := saveNPS(t, store, "Checkout", 1)
	if s.SurveyID == 0 || s.UUID == uuid.Nil {
		t.Fatalf("identity not linked: %+v", s.SurveyModel)
	}

	survey, err := store.Surveys().FindByUUID(ctx, s.UUID)
	if err != nil {
		t.Fatalf("find survey: %v", err)
	}
	if survey.ID != s.SurveyID || survey.Name != "Checkout" || survey.BusinessID != 1 || survey.Type != entities.TypeNPS || !survey.Active {
		t.Fatalf("identity out of sync: %+v", survey)
	}

	originalUUID := s.UUID
	s.Name = "Checkout v2"
	s.BusinessID = 2
	if err := details(t, store, entities.TypeNPS).Save(ctx, s); err != nil {
		t.Fatalf("update: %v", err)
	}

	survey, err = store.Surveys().FindByUUID(ctx, originalUUID)
	if err != nil {
		t.Fatalf("find by uuid: %v", err)
	}
	if survey.Name != "Checkout v2" || survey.BusinessID != 2 {
		t.Errorf("identity not updated: %+v", survey)
	}
	if s.UUID != originalUUID {
		t.Errorf("uuid reassigned from %s to %s", originalUUID, s.UUID)
	}

	var total int64
	if err := db.Model(&entities.Survey{}).Count(&total).Error; err != nil || total != 1 {
		t.Errorf("expected one identity record, got %d (%v)", total, err)
	}
}

func TestSaveRejectsForeignDetail(t *testing.T) {
	store, _ := newStore(t)
	err := details(t, store, entities.TypeNPS).Save(context.Background(), entities.NewCESSurvey())
	if err == nil {
		t.Fatal("expected error saving a CES detail through the NPS repository")
	}
}

func TestDeleteRemovesIdentity(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	repo := details(t, store, entities.TypeNPS)

	s := saveNPS(t, store, "Delete me", 1)
	if err := repo.Delete(ctx, s); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Surveys().FindByUUID(ctx, s.UUID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("identity survived delete: %v", err)
	}
	if _, err := repo.FindByUUID(ctx, s.UUID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("detail survived delete: %v", err)
	}
}

func TestUpdateWherePropagatesName(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	repo := details(t, store, entities.TypeCSAT)

	var ids []uuid.UUID
	for i, business := range []uint{1, 1, 2} {
		s := entities.NewCSATSurvey()
		entities.Assign(s, entities.SurveyAttributes{Name: "csat", BusinessID: business, Scale: entities.Scale1To5})
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		ids = append(ids, s.UUID)
	}

	rows, err := repo.UpdateWhere(ctx, map[string]interface{}{"name": "X"}, "business_id = ?", 1)
	if err != nil {
		t.Fatalf("update where: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}

	for i, id := range ids {
		survey, err := store.Surveys().FindByUUID(ctx, id)
		if err != nil {
			t.Fatalf("find %s: %v", id, err)
		}
		want := "X"
		if i == 2 {
			want = "csat"
		}
		if survey.Name != want {
			t.Errorf("survey %s name = %q, want %q", id, survey.Name, want)
		}
	}

	listed, err := repo.ListByBusiness(ctx, 1, "updated DESC")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, d := range listed {
		if d.Model().Name != "X" {
			t.Errorf("detail %s name = %q", d.Model().UUID, d.Model().Name)
		}
	}
}

func TestDeleteWhereRemovesIdentities(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	repo := details(t, store, entities.TypeNPS)

	saveNPS(t, store, "a", 1)
	saveNPS(t, store, "b", 1)
	kept := saveNPS(t, store, "c", 2)

	rows, err := repo.DeleteWhere(ctx, "business_id = ?", 1)
	if err != nil {
		t.Fatalf("delete where: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}

	surveys, err := store.Surveys().ListByBusiness(ctx, 1, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(surveys) != 0 {
		t.Errorf("orphaned identities: %+v", surveys)
	}
	if _, err := store.Surveys().FindByUUID(ctx, kept.UUID); err != nil {
		t.Errorf("unrelated identity removed: %v", err)
	}
}

func TestBulkCreateIsRejected(t *testing.T) {
	store, _ := newStore(t)
	err := details(t, store, entities.TypeCES).BulkCreate(context.Background(), []entities.SurveyDetail{entities.NewCESSurvey()})
	if !errors.Is(err, repositories.ErrBulkCreateNotSupported) {
		t.Fatalf("expected ErrBulkCreateNotSupported, got %v", err)
	}
}

func TestTransactionRollsBackIdentity(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	boom := errors.New("boom")

	var created uuid.UUID
	err := store.WithinTransaction(ctx, func(tx *repositories.Store) error {
		repo, err := tx.Details(entities.TypeNPS)
		if err != nil {
			return err
		}
		s := entities.NewNPSSurvey()
		entities.Assign(s, entities.SurveyAttributes{Name: "rolled back", BusinessID: 1})
		if err := repo.Save(ctx, s); err != nil {
			return err
		}
		created = s.UUID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := store.Surveys().FindByUUID(ctx, created); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("identity committed despite rollback: %v", err)
	}
}

func bucketFor(score int) string {
	switch {
	case score >= 9:
		return "promoters"
	case score >= 7:
		return "passives"
	}
	return "detractors"
}

func TestConcurrentBucketIncrements(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	s := saveNPS(t, store, "Concurrent", 1)

	var g errgroup.Group
	for _, score := range []int{10, 10, 3} {
		score := score
		g.Go(func() error {
			resp := &entities.NPSResponse{
				SurveyResponseBase: entities.SurveyResponseBase{SurveyUUID: s.UUID, CustomerUUID: uuid.New()},
				Score:              score,
			}
			bucket := repositories.Bucket{Model: &entities.NPSSurvey{}, SurveyUUID: s.UUID, Column: bucketFor(score)}
			return store.Responses().Record(ctx, resp, bucket, 0, nil)
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("record: %v", err)
	}

	d, err := details(t, store, entities.TypeNPS).FindByUUID(ctx, s.UUID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	nps := d.(*entities.NPSSurvey)
	if nps.Promoters != 2 || nps.Detractors != 1 || nps.Passives != 0 {
		t.Errorf("buckets = %d/%d/%d, want 2/0/1", nps.Promoters, nps.Passives, nps.Detractors)
	}

	total, err := store.Responses().CountBySurvey(ctx, &entities.NPSResponse{}, s.UUID)
	if err != nil || total != 3 {
		t.Errorf("responses = %d (%v), want 3", total, err)
	}
}

func TestRecordOnVanishedSurvey(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	s := saveNPS(t, store, "Gone", 1)
	if err := details(t, store, entities.TypeNPS).Delete(ctx, s); err != nil {
		t.Fatalf("delete: %v", err)
	}

	resp := &entities.NPSResponse{
		SurveyResponseBase: entities.SurveyResponseBase{SurveyUUID: s.UUID, CustomerUUID: uuid.New()},
		Score:              10,
	}
	err := store.Responses().Record(ctx, resp, repositories.Bucket{Model: &entities.NPSSurvey{}, SurveyUUID: s.UUID, Column: "promoters"}, 0, nil)
	if !errors.Is(err, repositories.ErrSurveyVanished) {
		t.Fatalf("expected ErrSurveyVanished, got %v", err)
	}

	total, err := store.Responses().CountBySurvey(ctx, &entities.NPSResponse{}, s.UUID)
	if err != nil || total != 0 {
		t.Errorf("response stored for vanished survey: %d (%v)", total, err)
	}
}
