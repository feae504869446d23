package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDrawServiceTest(t *testing.T) (*DrawService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:draw_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Entrant{}, &models.DrawRecord{}, &models.Promotion{}, &models.Vendor{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	svc := NewDrawService(
		repository.NewEntrantRepository(db),
		repository.NewDrawRepository(db),
		repository.NewPromotionRepository(db),
		nil,
	)
	return svc, db
}

func createDrawTestEntrant(t *testing.T, db *gorm.DB, email string, confirmed bool, stars int, returning bool, country string) *models.Entrant {
	t.Helper()
	entrant := &models.Entrant{
		Email:       email,
		Confirmed:   confirmed,
		Stars:       stars,
		IsReturning: returning,
		CountryCode: country,
	}
	if confirmed {
		now := time.Now()
		entrant.ConfirmedAt = &now
	}
	if err := db.Create(entrant).Error; err != nil {
		t.Fatalf("create entrant failed: %v", err)
	}
	return entrant
}

func TestBuildEligibilityFilterRejectsInvalidCriteria(t *testing.T) {
	cases := []DrawCriteria{
		{MinStars: -1},
		{StartDate: "not-a-date"},
		{EndDate: "2025/01/01"},
		{StartDate: "2025-06-01", EndDate: "2025-05-01"},
	}
	for i, criteria := range cases {
		if _, err := BuildEligibilityFilter(criteria); !errors.Is(err, ErrDrawCriteriaInvalid) {
			t.Fatalf("case %d: expected ErrDrawCriteriaInvalid, got %v", i, err)
		}
	}
}

func TestDrawSimulateAppliesAllCriteriaTogether(t *testing.T) {
	svc, db := setupDrawServiceTest(t)

	// 只有同时满足全部条件的用户才能进入候选池
	match := createDrawTestEntrant(t, db, "match@example.com", true, 3, true, "US")
	createDrawTestEntrant(t, db, "unconfirmed@example.com", false, 3, true, "US")
	createDrawTestEntrant(t, db, "low-stars@example.com", true, 1, true, "US")
	createDrawTestEntrant(t, db, "one-time@example.com", true, 3, false, "US")
	createDrawTestEntrant(t, db, "abroad@example.com", true, 3, true, "DE")

	confirmed := true
	returning := true
	result, err := svc.Simulate(DrawCriteria{
		Confirmed:   &confirmed,
		MinStars:    2,
		Returning:   &returning,
		CountryCode: "us",
	})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if result.EligibleCount != 1 {
		t.Fatalf("expected 1 eligible entrant, got %d", result.EligibleCount)
	}
	if len(result.Sample) != 1 || result.Sample[0] != match.Email {
		t.Fatalf("expected sample [%s], got %v", match.Email, result.Sample)
	}
}

func TestDrawSimulateHasNoSideEffects(t *testing.T) {
	svc, db := setupDrawServiceTest(t)
	createDrawTestEntrant(t, db, "sim@example.com", true, 0, false, "US")

	if _, err := svc.Simulate(DrawCriteria{}); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.DrawRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count draw records failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("simulate must not write draw records, found %d", count)
	}
}

func TestDrawCommitEmptyPoolWritesNothing(t *testing.T) {
	svc, db := setupDrawServiceTest(t)
	createDrawTestEntrant(t, db, "unconfirmed@example.com", false, 0, false, "US")

	confirmed := true
	_, err := svc.Commit(DrawCriteria{Confirmed: &confirmed}, 1)
	if !errors.Is(err, ErrNoEligibleCandidates) {
		t.Fatalf("expected ErrNoEligibleCandidates, got %v", err)
	}

	var count int64
	if err := db.Model(&models.DrawRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count draw records failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed commit must not write draw records, found %d", count)
	}
}

func TestDrawCommitRecordsAuditSnapshot(t *testing.T) {
	svc, db := setupDrawServiceTest(t)

	promotion := &models.Promotion{Slug: "spring-draw", Title: "Spring Draw", Status: "active"}
	if err := db.Create(promotion).Error; err != nil {
		t.Fatalf("create promotion failed: %v", err)
	}
	entrant := createDrawTestEntrant(t, db, "winner@example.com", true, 2, false, "US")

	confirmed := true
	result, err := svc.Commit(DrawCriteria{Confirmed: &confirmed, MinStars: 1, PromotionID: promotion.ID}, 42)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if result.WinnerID != entrant.ID || result.WinnerEmail != entrant.Email {
		t.Fatalf("expected winner %d/%s, got %d/%s", entrant.ID, entrant.Email, result.WinnerID, result.WinnerEmail)
	}
	if result.EligibleCount != 1 {
		t.Fatalf("expected eligible count 1, got %d", result.EligibleCount)
	}

	record, err := svc.GetRecord(result.DrawID)
	if err != nil {
		t.Fatalf("get record failed: %v", err)
	}
	if record.WinnerEmail != entrant.Email {
		t.Fatalf("expected winner email snapshot %s, got %s", entrant.Email, record.WinnerEmail)
	}
	if record.PromotionID == nil || *record.PromotionID != promotion.ID {
		t.Fatalf("expected promotion id %d, got %+v", promotion.ID, record.PromotionID)
	}
	if record.OperatorID == nil || *record.OperatorID != 42 {
		t.Fatalf("expected operator id 42, got %+v", record.OperatorID)
	}
	if record.CriteriaJSON == nil {
		t.Fatalf("expected criteria snapshot to be stored")
	}
	if got, ok := record.CriteriaJSON["min_stars"]; !ok || fmt.Sprintf("%v", got) != "1" {
		t.Fatalf("expected criteria snapshot min_stars=1, got %v", record.CriteriaJSON)
	}

	history, err := svc.History()
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != record.ID {
		t.Fatalf("expected history [%d], got %+v", record.ID, history)
	}
}

func TestDrawHistoryReturnsLatestTen(t *testing.T) {
	svc, db := setupDrawServiceTest(t)
	createDrawTestEntrant(t, db, "history@example.com", true, 0, false, "US")

	for i := 0; i < 12; i++ {
		if _, err := svc.Commit(DrawCriteria{}, 1); err != nil {
			t.Fatalf("commit %d failed: %v", i, err)
		}
	}

	history, err := svc.History()
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(history) != 10 {
		t.Fatalf("expected 10 records, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].ID > history[i-1].ID {
			t.Fatalf("expected history in reverse order, got %d before %d", history[i-1].ID, history[i].ID)
		}
	}
}

func TestDrawEndDateIncludesWholeDay(t *testing.T) {
	svc, db := setupDrawServiceTest(t)

	// 结束日期含当天最后一刻，次日零点起排除
	lastMoment := time.Date(2025, 6, 15, 23, 59, 59, int(999*time.Millisecond), time.Local)
	nextMidnight := time.Date(2025, 6, 16, 0, 0, 0, 0, time.Local)
	edge := &models.Entrant{Email: "edge@example.com", Confirmed: true, CountryCode: "US", CreatedAt: lastMoment}
	if err := db.Create(edge).Error; err != nil {
		t.Fatalf("create entrant failed: %v", err)
	}
	after := &models.Entrant{Email: "after@example.com", Confirmed: true, CountryCode: "US", CreatedAt: nextMidnight}
	if err := db.Create(after).Error; err != nil {
		t.Fatalf("create entrant failed: %v", err)
	}

	result, err := svc.Simulate(DrawCriteria{StartDate: "2025-06-15", EndDate: "2025-06-15"})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if result.EligibleCount != 1 {
		t.Fatalf("expected only the 23:59:59.999 entrant to match, got %d", result.EligibleCount)
	}
	if len(result.Sample) != 1 || result.Sample[0] != edge.Email {
		t.Fatalf("expected sample [%s], got %v", edge.Email, result.Sample)
	}
}

func TestDrawSimulateCountsBeyondSampleLimit(t *testing.T) {
	svc, db := setupDrawServiceTest(t)

	for i := 0; i < 12; i++ {
		createDrawTestEntrant(t, db, fmt.Sprintf("pool-%d@example.com", i), true, 0, false, "US")
	}

	result, err := svc.Simulate(DrawCriteria{})
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if result.EligibleCount != 12 {
		t.Fatalf("expected eligible count 12, got %d", result.EligibleCount)
	}
	if len(result.Sample) != drawSampleLimit {
		t.Fatalf("expected sample capped at %d, got %d", drawSampleLimit, len(result.Sample))
	}
}

func TestDrawCommitSelectsWinnersUniformly(t *testing.T) {
	svc, db := setupDrawServiceTest(t)

	const candidates = 5
	const trials = 5000
	for i := 0; i < candidates; i++ {
		createDrawTestEntrant(t, db, fmt.Sprintf("candidate-%d@example.com", i), true, 0, false, "US")
	}

	wins := make(map[uint]int, candidates)
	for i := 0; i < trials; i++ {
		result, err := svc.Commit(DrawCriteria{}, 1)
		if err != nil {
			t.Fatalf("commit %d failed: %v", i, err)
		}
		wins[result.WinnerID]++
	}

	if len(wins) != candidates {
		t.Fatalf("expected all %d candidates to win at least once, got %d", candidates, len(wins))
	}
	expected := trials / candidates
	lower := expected * 8 / 10
	upper := expected * 12 / 10
	for winnerID, count := range wins {
		if count < lower || count > upper {
			t.Fatalf("winner %d selected %d times, outside uniform range [%d, %d]", winnerID, count, lower, upper)
		}
	}
}

func TestDrawExportCSV(t *testing.T) {
	svc, db := setupDrawServiceTest(t)
	createDrawTestEntrant(t, db, "export@example.com", true, 2, false, "US")
	createDrawTestEntrant(t, db, "excluded@example.com", false, 0, false, "US")

	confirmed := true
	data, err := svc.ExportCSV(DrawCriteria{Confirmed: &confirmed})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,email,name,confirmed") {
		t.Fatalf("unexpected csv header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "export@example.com") {
		t.Fatalf("expected exported row for export@example.com, got %s", lines[1])
	}
}
