package compliments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"compliment-bot/internal/common"
	"compliment-bot/internal/config"
	"compliment-bot/internal/events"
)

// testService собирает сервис без БД: проверяем только валидацию,
// которая срабатывает до обращения к репозиторию.
func testService() *Service {
	cfg := &config.Config{
		ComplimentDailyLimit: 5,
		ComplimentMaxLength:  280,
		ComplimentReward:     10,
		RecipientBonus:       5,
		LikeReward:           1,
		ReputationGiver:      10,
		ReputationRecipient:  15,
		ReputationLike:       2,
	}
	return NewService(nil, cfg, events.NewBus())
}

func TestGiveRejectsSelfRecipient(t *testing.T) {
	s := testService()

	_, err := s.Give(context.Background(), 100, 100, "ты лучший")
	require.ErrorIs(t, err, common.ErrInvalidRecipient)
}

func TestGiveRejectsZeroRecipient(t *testing.T) {
	s := testService()

	_, err := s.Give(context.Background(), 100, 0, "ты лучший")
	require.ErrorIs(t, err, common.ErrInvalidRecipient)
}

func TestGiveRejectsEmptyMessage(t *testing.T) {
	s := testService()

	_, err := s.Give(context.Background(), 100, 200, "")
	require.ErrorIs(t, err, common.ErrInvalidMessage)
}

func TestGiveRejectsOversizedMessage(t *testing.T) {
	s := testService()

	// 281 байт ASCII
	_, err := s.Give(context.Background(), 100, 200, strings.Repeat("a", 281))
	require.ErrorIs(t, err, common.ErrInvalidMessage)
}

func TestGiveLimitCountsBytesNotRunes(t *testing.T) {
	s := testService()

	// 141 кириллический символ = 282 байта: рун меньше лимита, байт больше
	msg := strings.Repeat("ю", 141)
	require.Less(t, len([]rune(msg)), 280)
	require.Greater(t, len(msg), 280)

	_, err := s.Give(context.Background(), 100, 200, msg)
	require.ErrorIs(t, err, common.ErrInvalidMessage)
}

func TestLikeRejectsBadID(t *testing.T) {
	s := testService()

	_, err := s.Like(context.Background(), 100, 0)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Like(context.Background(), 100, -5)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeactivateRejectsBadID(t *testing.T) {
	s := testService()

	err := s.Deactivate(context.Background(), 1, 0)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestQueryRejectsOversizedLimit(t *testing.T) {
	s := testService()
	ctx := context.Background()

	_, err := s.QueryByGiver(ctx, 100, 0, MaxPageSize+1)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.QueryByRecipient(ctx, 100, 0, 1000)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.QueryRecent(ctx, 51)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestQueryRejectsNegativeParams(t *testing.T) {
	s := testService()
	ctx := context.Background()

	_, err := s.QueryByGiver(ctx, 100, -1, 10)
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = s.QueryByGiver(ctx, 100, 0, -1)
	require.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestQueryZeroLimitSkipsDatabase(t *testing.T) {
	// repo == nil: если сервис полез в БД, тест упадёт паникой
	s := testService()
	ctx := context.Background()

	list, err := s.QueryByGiver(ctx, 100, 0, 0)
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = s.QueryByRecipient(ctx, 100, 10, 0)
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = s.QueryRecent(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestRewardSkippedOnlyAtCap(t *testing.T) {
	// Награда настроена, но не выпущена — достигнут потолок
	require.True(t, rewardSkipped(0, 15))
	require.True(t, rewardSkipped(0, 1))

	// Награда выпущена — предупреждать не о чем
	require.False(t, rewardSkipped(15, 15))
}

func TestRewardSkippedQuietWhenRewardsDisabled(t *testing.T) {
	// Нулевые награды в конфиге: Minted == 0 — штатный исход
	require.False(t, rewardSkipped(0, 0))
}
