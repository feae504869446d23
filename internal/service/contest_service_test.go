package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/instagram"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupContestServiceTest(t *testing.T, igClient *instagram.Client) (*ContestService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:contest_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Contest{}, &models.PhotoEntry{}, &models.Entrant{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	return NewContestService(repository.NewContestRepository(db), igClient, nil), db
}

func createContestTestEntry(t *testing.T, db *gorm.DB, contestID uint, instagramID, status string) *models.PhotoEntry {
	t.Helper()
	entry := &models.PhotoEntry{
		ContestID:   contestID,
		InstagramID: instagramID,
		Username:    "photographer",
		MediaURL:    "https://cdn.example/" + instagramID + ".jpg",
		Status:      status,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create photo entry failed: %v", err)
	}
	return entry
}

func TestContestCreateNormalizesHashtagAndRejectsDuplicateSlug(t *testing.T) {
	svc, _ := setupContestServiceTest(t, nil)

	contest, err := svc.Create(ContestInput{Slug: "best-view", Title: "Best View", Hashtag: "#bestview"})
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}
	if contest.Hashtag != "bestview" {
		t.Fatalf("expected hashtag without #, got %s", contest.Hashtag)
	}
	if contest.Status != constants.ContestStatusDraft {
		t.Fatalf("expected default draft status, got %s", contest.Status)
	}

	if _, err := svc.Create(ContestInput{Slug: "best-view", Title: "Duplicate"}); !errors.Is(err, ErrContestSlugTaken) {
		t.Fatalf("expected ErrContestSlugTaken, got %v", err)
	}
}

func TestReviewEntryTransitions(t *testing.T) {
	svc, db := setupContestServiceTest(t, nil)

	contest, err := svc.Create(ContestInput{Slug: "review", Title: "Review"})
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}
	entry := createContestTestEntry(t, db, contest.ID, "media-1", constants.PhotoEntryStatusPending)

	approved, err := svc.ReviewEntry(entry.ID, constants.PhotoEntryStatusApproved)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != constants.PhotoEntryStatusApproved {
		t.Fatalf("expected approved status, got %s", approved.Status)
	}

	rejected, err := svc.ReviewEntry(entry.ID, constants.PhotoEntryStatusRejected)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != constants.PhotoEntryStatusRejected {
		t.Fatalf("expected rejected status, got %s", rejected.Status)
	}

	if _, err := svc.ReviewEntry(entry.ID, "pending"); !errors.Is(err, ErrPhotoEntryStatusInvalid) {
		t.Fatalf("expected ErrPhotoEntryStatusInvalid, got %v", err)
	}
	if _, err := svc.ReviewEntry(9999, constants.PhotoEntryStatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListApprovedEntriesShowsOnlyApproved(t *testing.T) {
	svc, db := setupContestServiceTest(t, nil)

	contest, err := svc.Create(ContestInput{Slug: "gallery", Title: "Gallery"})
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}
	createContestTestEntry(t, db, contest.ID, "approved-1", constants.PhotoEntryStatusApproved)
	createContestTestEntry(t, db, contest.ID, "pending-1", constants.PhotoEntryStatusPending)
	createContestTestEntry(t, db, contest.ID, "rejected-1", constants.PhotoEntryStatusRejected)

	entries, total, err := svc.ListApprovedEntries("gallery", 1, 20)
	if err != nil {
		t.Fatalf("list approved entries failed: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected 1 approved entry, got total=%d len=%d", total, len(entries))
	}
	if entries[0].InstagramID != "approved-1" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}

	if _, _, err := svc.ListApprovedEntries("missing", 1, 20); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown contest, got %v", err)
	}
}

func TestSyncInstagramMediaDeduplicatesByMediaID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "cabinview" {
			t.Errorf("unexpected hashtag query: %s", r.URL.Query().Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[
			{"id":"m-1","username":"alice","media_url":"https://cdn.example/m-1.jpg","permalink":"https://instagram.com/p/m-1","caption":"view","timestamp":"2025-08-01T10:00:00+0000"},
			{"id":"m-2","username":"bob","media_url":"https://cdn.example/m-2.jpg","permalink":"https://instagram.com/p/m-2","caption":"","timestamp":"2025-08-02T10:00:00+0000"},
			{"id":"","username":"broken","media_url":"https://cdn.example/broken.jpg"}
		]}`)
	}))
	defer server.Close()

	igClient := instagram.NewClient(config.InstagramConfig{
		Enabled:     true,
		BaseURL:     server.URL,
		AccessToken: "test-token",
	})
	svc, db := setupContestServiceTest(t, igClient)

	contest, err := svc.Create(ContestInput{Slug: "cabin-view", Title: "Cabin View", Hashtag: "cabinview"})
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	created, err := svc.SyncInstagramMedia(context.Background(), contest.ID)
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("expected 2 created entries, got %d", created)
	}

	// 重复同步不再新增
	created, err = svc.SyncInstagramMedia(context.Background(), contest.ID)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected 0 created entries on resync, got %d", created)
	}

	var entries []models.PhotoEntry
	if err := db.Where("contest_id = ?", contest.ID).Order("instagram_id").Find(&entries).Error; err != nil {
		t.Fatalf("load entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 stored entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Status != constants.PhotoEntryStatusPending {
			t.Fatalf("synced entries must start pending, got %s", entry.Status)
		}
	}
	if entries[0].PostedAt == nil {
		t.Fatalf("expected posted_at parsed from timestamp")
	}
}

func TestSyncInstagramMediaRequiresEnabledClient(t *testing.T) {
	svc, _ := setupContestServiceTest(t, nil)

	contest, err := svc.Create(ContestInput{Slug: "disabled", Title: "Disabled", Hashtag: "tag"})
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	if _, err := svc.SyncInstagramMedia(context.Background(), contest.ID); !errors.Is(err, ErrInstagramDisabled) {
		t.Fatalf("expected ErrInstagramDisabled, got %v", err)
	}
	if err := svc.RequestInstagramSync(contest.ID); !errors.Is(err, ErrInstagramDisabled) {
		t.Fatalf("expected ErrInstagramDisabled, got %v", err)
	}
}
