package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"arenax/internal/db"
	"arenax/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 用内存 sqlite 顶替全局句柄，跑同一套迁移
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// :memory: 下每个连接都是一个独立的库，必须收紧到单连接
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	db.DB = gdb
}

var testUserSeq int

func createTestUser(t *testing.T, username string) *models.User {
	t.Helper()
	testUserSeq++
	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s%d@test.local", username, testUserSeq),
		Password: "not-a-real-hash",
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestDebate(t *testing.T, creatorID uint, hours int) *models.Debate {
	t.Helper()
	debate, err := CreateDebate(CreateDebateInput{
		CreatorID:     creatorID,
		Title:         "Remote work is better than office work",
		Description:   "A test proposition.",
		DurationHours: hours,
	})
	if err != nil {
		t.Fatalf("failed to create debate: %v", err)
	}
	return debate
}

// freezeClock 冻结服务时钟到 at，返回拨针函数
func freezeClock(t *testing.T, at time.Time) func(time.Time) {
	t.Helper()
	orig := Now
	current := at
	Now = func() time.Time { return current }
	t.Cleanup(func() { Now = orig })
	return func(next time.Time) { current = next }
}

func TestJoinDebate(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	debate := createTestDebate(t, alice.ID, 24)

	participant, err := JoinDebate(debate.ID, alice.ID, models.SideSupport)
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if participant.Side != models.SideSupport {
		t.Errorf("side = %q, want %q", participant.Side, models.SideSupport)
	}
	if participant.Username != "alice" {
		t.Errorf("username snapshot = %q, want alice", participant.Username)
	}
	if participant.HasPostedFirstArgument {
		t.Error("new participant should not be marked as having posted")
	}

	// 重复加入，换边也不行
	_, err = JoinDebate(debate.ID, alice.ID, models.SideOppose)
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("duplicate join: got %v, want ConflictError", err)
	}

	// 参与计数 +1
	var reloaded models.User
	db.DB.First(&reloaded, alice.ID)
	if reloaded.DebatesParticipated != 1 {
		t.Errorf("debates_participated = %d, want 1", reloaded.DebatesParticipated)
	}
}

func TestJoinDebateValidation(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	debate := createTestDebate(t, alice.ID, 24)

	_, err := JoinDebate(debate.ID, alice.ID, models.Side("neutral"))
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("invalid side: got %v, want ValidationError", err)
	}

	_, err = JoinDebate(99999, alice.ID, models.SideSupport)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("missing debate: got %v, want NotFoundError", err)
	}
}

func TestPostArgumentRequiresJoin(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	debate := createTestDebate(t, alice.ID, 24)

	_, err := PostArgument(debate.ID, alice.ID, "An argument without joining first.")
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("got %v, want AuthorizationError", err)
	}
}

func TestPostArgumentReplyWindow(t *testing.T) {
	setupTestDB(t)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	advance := freezeClock(t, t0)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	debate := createTestDebate(t, alice.ID, 24)

	if _, err := JoinDebate(debate.ID, alice.ID, models.SideSupport); err != nil {
		t.Fatalf("alice join: %v", err)
	}

	// Bob 在 +2 分钟加入反方
	advance(t0.Add(2 * time.Minute))
	if _, err := JoinDebate(debate.ID, bob.ID, models.SideOppose); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	// Alice 在时限内发首贴
	advance(t0.Add(4 * time.Minute))
	first, err := PostArgument(debate.ID, alice.ID, "Commutes waste hours every single day.")
	if err != nil {
		t.Fatalf("alice first argument: %v", err)
	}
	if first.Side != models.SideSupport {
		t.Errorf("argument side = %q, want support", first.Side)
	}

	var p models.Participant
	db.DB.Where("debate_id = ? AND user_id = ?", debate.ID, alice.ID).First(&p)
	if !p.HasPostedFirstArgument {
		t.Error("has_posted_first_argument should flip to true after the first post")
	}

	// 发过首贴后不再受时限约束
	advance(t0.Add(3 * time.Hour))
	if _, err := PostArgument(debate.ID, alice.ID, "Focus time at home is simply deeper."); err != nil {
		t.Errorf("alice follow-up argument: %v", err)
	}

	// Bob 加入后 6 分钟才开口，已过时限
	_, err = PostArgument(debate.ID, bob.ID, "Offices build real team cohesion.")
	var expired *TimerExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("bob late first argument: got %v, want TimerExpiredError", err)
	}

	// 过期是永久的
	advance(t0.Add(5 * time.Hour))
	_, err = PostArgument(debate.ID, bob.ID, "One more try.")
	if !errors.As(err, &expired) {
		t.Errorf("bob retry after expiry: got %v, want TimerExpiredError", err)
	}
}

func TestPostArgumentModeration(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	debate := createTestDebate(t, alice.ID, 24)
	if _, err := JoinDebate(debate.ID, alice.ID, models.SideSupport); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, err := PostArgument(debate.ID, alice.ID, "Only an idiot would disagree.")
	var modErr *ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("got %v, want ModerationError", err)
	}

	// 被拦截的内容不应落库
	var count int64
	db.DB.Model(&models.Argument{}).Where("debate_id = ?", debate.ID).Count(&count)
	if count != 0 {
		t.Errorf("blocked argument was persisted, count = %d", count)
	}
}

func TestUpdateArgument(t *testing.T) {
	setupTestDB(t)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	advance := freezeClock(t, t0)

	alice := createTestUser(t, "alice")
	mallory := createTestUser(t, "mallory")
	debate := createTestDebate(t, alice.ID, 24)
	if _, err := JoinDebate(debate.ID, alice.ID, models.SideSupport); err != nil {
		t.Fatalf("join: %v", err)
	}
	argument, err := PostArgument(debate.ID, alice.ID, "Original wording.")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// 他人不可编辑
	_, err = UpdateArgument(argument.ID, mallory.ID, "Hijacked wording.")
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("foreign edit: got %v, want AuthorizationError", err)
	}

	// 5 分钟内可编辑
	advance(t0.Add(4 * time.Minute))
	updated, err := UpdateArgument(argument.ID, alice.ID, "Sharper wording.")
	if err != nil {
		t.Fatalf("edit within window: %v", err)
	}
	if updated.Content != "Sharper wording." {
		t.Errorf("content = %q after edit", updated.Content)
	}

	// 超时后拒绝
	advance(t0.Add(6 * time.Minute))
	_, err = UpdateArgument(argument.ID, alice.ID, "Too late wording.")
	var expired *TimerExpiredError
	if !errors.As(err, &expired) {
		t.Fatalf("edit past window: got %v, want TimerExpiredError", err)
	}
}

func TestVoteToggleAndSwitch(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	voter := createTestUser(t, "carol")
	debate := createTestDebate(t, alice.ID, 24)
	if _, err := JoinDebate(debate.ID, alice.ID, models.SideSupport); err != nil {
		t.Fatalf("join: %v", err)
	}
	argument, err := PostArgument(debate.ID, alice.ID, "A point worth voting on.")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// 首投
	tally, err := VoteOnArgument(argument.ID, voter.ID, models.VoteTypeUp)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if tally.Upvotes != 1 || tally.NetVotes != 1 || tally.UserVote != models.VoteTypeUp {
		t.Errorf("after upvote: %+v", tally)
	}

	// 同类型再投 = 取消
	tally, err = VoteOnArgument(argument.ID, voter.ID, models.VoteTypeUp)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if tally.TotalVotes != 0 || tally.UserVote != "" {
		t.Errorf("after toggle off: %+v", tally)
	}
	var count int64
	db.DB.Model(&models.ArgumentVote{}).Where("argument_id = ?", argument.ID).Count(&count)
	if count != 0 {
		t.Errorf("vote rows after toggle off = %d, want 0", count)
	}

	// 重新点赞再换成点踩：单行改写，不新增
	if _, err := VoteOnArgument(argument.ID, voter.ID, models.VoteTypeUp); err != nil {
		t.Fatalf("re-vote: %v", err)
	}
	tally, err = VoteOnArgument(argument.ID, voter.ID, models.VoteTypeDown)
	if err != nil {
		t.Fatalf("switch vote: %v", err)
	}
	if tally.Upvotes != 0 || tally.Downvotes != 1 || tally.NetVotes != -1 || tally.UserVote != models.VoteTypeDown {
		t.Errorf("after switch: %+v", tally)
	}
	db.DB.Model(&models.ArgumentVote{}).Where("argument_id = ?", argument.ID).Count(&count)
	if count != 1 {
		t.Errorf("vote rows after switch = %d, want 1", count)
	}

	// 非法票型
	_, err = VoteOnArgument(argument.ID, voter.ID, "sideways")
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("invalid vote type: got %v, want ValidationError", err)
	}
}

func TestDeleteArgumentCascadesVotes(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice")
	voter := createTestUser(t, "carol")
	debate := createTestDebate(t, alice.ID, 24)
	if _, err := JoinDebate(debate.ID, alice.ID, models.SideSupport); err != nil {
		t.Fatalf("join: %v", err)
	}
	argument, err := PostArgument(debate.ID, alice.ID, "A short-lived point.")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if _, err := VoteOnArgument(argument.ID, voter.ID, models.VoteTypeUp); err != nil {
		t.Fatalf("vote: %v", err)
	}

	// 他人不可删除
	if err := DeleteArgument(argument.ID, voter.ID); err == nil {
		t.Fatal("foreign delete should fail")
	}

	if err := DeleteArgument(argument.ID, alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.DB.Model(&models.ArgumentVote{}).Where("argument_id = ?", argument.ID).Count(&count)
	if count != 0 {
		t.Errorf("orphaned vote rows = %d, want 0", count)
	}

	_, err = TallyArgument(argument.ID, 0)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("tally of deleted argument: got %v, want NotFoundError", err)
	}
}

func TestListArgumentsWithVotes(t *testing.T) {
	setupTestDB(t)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	advance := freezeClock(t, t0)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	debate := createTestDebate(t, alice.ID, 24)
	if _, err := JoinDebate(debate.ID, alice.ID, models.SideSupport); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if _, err := JoinDebate(debate.ID, bob.ID, models.SideOppose); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	first, err := PostArgument(debate.ID, alice.ID, "Posted first.")
	if err != nil {
		t.Fatalf("first post: %v", err)
	}
	advance(t0.Add(time.Minute))
	second, err := PostArgument(debate.ID, bob.ID, "Posted second.")
	if err != nil {
		t.Fatalf("second post: %v", err)
	}

	if _, err := VoteOnArgument(second.ID, alice.ID, models.VoteTypeUp); err != nil {
		t.Fatalf("vote: %v", err)
	}

	arguments, err := ListArgumentsWithVotes(debate.ID, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(arguments) != 2 {
		t.Fatalf("len = %d, want 2", len(arguments))
	}
	// 发表顺序
	if arguments[0].ID != first.ID || arguments[1].ID != second.ID {
		t.Errorf("order = [%d, %d], want [%d, %d]",
			arguments[0].ID, arguments[1].ID, first.ID, second.ID)
	}
	if arguments[1].Upvotes != 1 || arguments[1].NetVotes != 1 {
		t.Errorf("second argument tally: up=%d net=%d", arguments[1].Upvotes, arguments[1].NetVotes)
	}
	if arguments[1].UserVote != models.VoteTypeUp {
		t.Errorf("user vote marker = %q, want upvote", arguments[1].UserVote)
	}
	if arguments[0].UserVote != "" {
		t.Errorf("unvoted argument carries marker %q", arguments[0].UserVote)
	}
}
