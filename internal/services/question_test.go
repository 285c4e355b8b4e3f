package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qfeed/qfeed-backend/internal/repos"
	"github.com/qfeed/qfeed-backend/internal/types"
)

func newQuestionServiceForTest(t *testing.T, gdb *gorm.DB) QuestionService {
	t.Helper()
	log := newTestLogger()
	return NewQuestionService(
		gdb,
		log,
		repos.NewQuestionRepo(gdb, log),
		repos.NewChoiceRepo(gdb, log),
		repos.NewViewHistoryRepo(gdb, log),
		repos.NewFollowRepo(gdb, log),
	)
}

func createTestFollow(t *testing.T, gdb *gorm.DB, accountID, targetID uuid.UUID) {
	t.Helper()
	now := time.Now()
	follow := &types.Follow{
		ID:              uuid.New(),
		AccountID:       accountID,
		TargetAccountID: targetID,
		Timestamps:      types.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := gdb.Create(follow).Error; err != nil {
		t.Fatalf("failed to create test follow: %v", err)
	}
}

func TestCreateQuestion_Validation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")

	_, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{Title: "  ", ChoiceList: []string{"a"}})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{Title: "t", ChoiceList: nil})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
		Title:      "t",
		ChoiceList: []string{"1", "2", "3", "4", "5", "6", "7"},
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestCreateQuestion_DefaultsBackgroundAndType(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")

	created, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
		Title:      "favorite season?",
		ChoiceList: []string{"summer", "winter"},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if created.Qtype != types.QtypePersonal {
		t.Fatalf("expected personal qtype, got %q", created.Qtype)
	}
	if created.BackgroundImage != types.DefaultQuestionBackground {
		t.Fatalf("expected default background, got %q", created.BackgroundImage)
	}
}

func TestCreateQuestion_DuplicateTitleConflict(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")

	in := QuestionInCreate{Title: "favorite season?", ChoiceList: []string{"summer"}}
	if _, err := svc.CreateQuestion(context.Background(), owner.ID, in); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	_, err := svc.CreateQuestion(context.Background(), owner.ID, in)
	wantStatus(t, err, http.StatusConflict)
}

func TestGetQuestion_RecordsViewOnce(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")
	viewer := createTestAccount(t, gdb, "juno")

	created, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
		Title:      "favorite season?",
		ChoiceList: []string{"summer"},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.GetQuestion(context.Background(), viewer.ID, created.ID); err != nil {
			t.Fatalf("GetQuestion #%d failed: %v", i+1, err)
		}
	}
	var count int64
	err = gdb.Model(&types.ViewHistory{}).
		Where("question_id = ? AND account_id = ?", created.ID, viewer.ID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("view history count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single view history row, got %d", count)
	}
}

func TestGetQuestion_NotFound(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	viewer := createTestAccount(t, gdb, "juno")

	_, err := svc.GetQuestion(context.Background(), viewer.ID, uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestCreateChoice_SecondAnswerConflicts(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")
	chooser := createTestAccount(t, gdb, "juno")

	created, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
		Title:      "favorite season?",
		ChoiceList: []string{"summer", "winter"},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if _, err := svc.CreateChoice(context.Background(), chooser.ID, created.ID, "summer"); err != nil {
		t.Fatalf("CreateChoice failed: %v", err)
	}
	_, err = svc.CreateChoice(context.Background(), chooser.ID, created.ID, "winter")
	wantStatus(t, err, http.StatusConflict)
}

func TestFetchChoiceTally_CountsAndOwnPick(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")
	first := createTestAccount(t, gdb, "juno")
	second := createTestAccount(t, gdb, "ray")

	created, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
		Title:      "favorite season?",
		ChoiceList: []string{"summer", "winter"},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if _, err := svc.CreateChoice(context.Background(), first.ID, created.ID, "summer"); err != nil {
		t.Fatalf("CreateChoice failed: %v", err)
	}
	if _, err := svc.CreateChoice(context.Background(), second.ID, created.ID, "summer"); err != nil {
		t.Fatalf("CreateChoice failed: %v", err)
	}

	tally, err := svc.FetchChoiceTally(context.Background(), first.ID, created.ID)
	if err != nil {
		t.Fatalf("FetchChoiceTally failed: %v", err)
	}
	if len(tally.Counts) != 1 || tally.Counts[0].Value != "summer" || tally.Counts[0].Count != 2 {
		t.Fatalf("unexpected tally: %+v", tally.Counts)
	}
	if tally.UserChoice == nil || *tally.UserChoice != "summer" {
		t.Fatalf("expected own pick summer, got %v", tally.UserChoice)
	}

	// A viewer who has not answered gets counts but no own pick.
	tally, err = svc.FetchChoiceTally(context.Background(), owner.ID, created.ID)
	if err != nil {
		t.Fatalf("FetchChoiceTally failed: %v", err)
	}
	if tally.UserChoice != nil {
		t.Fatalf("expected no own pick, got %q", *tally.UserChoice)
	}
}

func TestFetchFeed_ScopedToFollowedAndSelf(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	viewer := createTestAccount(t, gdb, "mina")
	followed := createTestAccount(t, gdb, "juno")
	stranger := createTestAccount(t, gdb, "ray")
	createTestFollow(t, gdb, viewer.ID, followed.ID)

	for _, owner := range []*types.Account{viewer, followed, stranger} {
		_, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
			Title:      "q by " + owner.Name,
			ChoiceList: []string{"a"},
		})
		if err != nil {
			t.Fatalf("CreateQuestion failed: %v", err)
		}
	}
	blind, err := svc.CreateQuestion(context.Background(), followed.ID, QuestionInCreate{
		Title:      "blind one",
		ChoiceList: []string{"a"},
		IsBlind:    true,
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	feed, err := svc.FetchFeed(context.Background(), viewer.ID, "", 0, 10)
	if err != nil {
		t.Fatalf("FetchFeed failed: %v", err)
	}
	if feed.Count != 2 || len(feed.Data) != 2 {
		t.Fatalf("expected 2 feed rows, got count=%d len=%d", feed.Count, len(feed.Data))
	}
	for _, row := range feed.Data {
		if row.OwnerID == stranger.ID {
			t.Fatalf("stranger's question leaked into the feed")
		}
		if row.ID == blind.ID {
			t.Fatalf("blind question leaked into the feed")
		}
	}
}

func TestFetchFeed_UnseenRowsFirst(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	viewer := createTestAccount(t, gdb, "mina")
	followed := createTestAccount(t, gdb, "juno")
	createTestFollow(t, gdb, viewer.ID, followed.ID)

	seen, err := svc.CreateQuestion(context.Background(), followed.ID, QuestionInCreate{
		Title:      "seen",
		ChoiceList: []string{"a"},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	unseen, err := svc.CreateQuestion(context.Background(), followed.ID, QuestionInCreate{
		Title:      "unseen",
		ChoiceList: []string{"a"},
	})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	if _, err := svc.GetQuestion(context.Background(), viewer.ID, seen.ID); err != nil {
		t.Fatalf("GetQuestion failed: %v", err)
	}

	feed, err := svc.FetchFeed(context.Background(), viewer.ID, "", 0, 10)
	if err != nil {
		t.Fatalf("FetchFeed failed: %v", err)
	}
	if len(feed.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(feed.Data))
	}
	if feed.Data[0].ID != unseen.ID {
		t.Fatalf("expected unseen question first, got %s", feed.Data[0].Title)
	}
	if feed.Data[0].IsViewed != 0 || feed.Data[1].IsViewed != 1 {
		t.Fatalf("unexpected view flags: %d / %d", feed.Data[0].IsViewed, feed.Data[1].IsViewed)
	}
	if feed.Data[1].ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", feed.Data[1].ViewCount)
	}
}

func TestFetchFeed_RejectsUnknownOrderKey(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	viewer := createTestAccount(t, gdb, "mina")

	_, err := svc.FetchFeed(context.Background(), viewer.ID, "owner_id; DROP TABLE question", 0, 10)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestFetchUserQuestions_FiltersByType(t *testing.T) {
	gdb := newTestDB(t)
	svc := newQuestionServiceForTest(t, gdb)
	owner := createTestAccount(t, gdb, "mina")

	if _, err := svc.CreateQuestion(context.Background(), owner.ID, QuestionInCreate{
		Title:      "personal one",
		ChoiceList: []string{"a"},
	}); err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	now := time.Now()
	official := &types.Question{
		ID:         uuid.New(),
		OwnerID:    owner.ID,
		Title:      "official one",
		Qtype:      types.QtypeOfficial,
		Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	if err := gdb.Create(official).Error; err != nil {
		t.Fatalf("failed to create official question: %v", err)
	}

	personal, count, err := svc.FetchUserQuestions(context.Background(), owner.ID, types.QtypePersonal, 0, 10)
	if err != nil {
		t.Fatalf("FetchUserQuestions failed: %v", err)
	}
	if count != 1 || len(personal) != 1 || personal[0].Title != "personal one" {
		t.Fatalf("unexpected personal listing: count=%d", count)
	}

	_, _, err = svc.FetchUserQuestions(context.Background(), owner.ID, types.Qtype("weird"), 0, 10)
	wantStatus(t, err, http.StatusBadRequest)
}
