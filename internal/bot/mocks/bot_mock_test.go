package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
)

func TestMockBot_SendMessage(t *testing.T) {
	t.Parallel()

	t.Run("captures sent message", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		ctx := context.Background()

		msg, err := mockBot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    int64(12345),
			Text:      "Hello, World!",
			ParseMode: models.ParseModeHTML,
		})

		require.NoError(t, err)
		require.NotNil(t, msg)
		require.Equal(t, 1000, msg.ID)
		require.Equal(t, int64(12345), msg.Chat.ID)

		require.Equal(t, 1, mockBot.SentMessageCount())
		last := mockBot.LastSentMessage()
		require.NotNil(t, last)
		require.Equal(t, int64(12345), last.ChatID)
		require.Equal(t, "Hello, World!", last.Text)
		require.Equal(t, models.ParseModeHTML, last.ParseMode)
		require.Nil(t, last.InlineKeyboard())
	})

	t.Run("captures inline keyboard", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		kb := &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{{{Text: "A", CallbackData: "a"}}},
		}

		_, err := mockBot.SendMessage(context.Background(), &bot.SendMessageParams{
			ChatID:      int64(1),
			Text:        "menu",
			ReplyMarkup: kb,
		})
		require.NoError(t, err)
		require.Same(t, kb, mockBot.LastSentMessage().InlineKeyboard())
	})

	t.Run("returns error when configured", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		mockBot.SendMessageError = errors.New("send failed")

		_, err := mockBot.SendMessage(context.Background(), &bot.SendMessageParams{
			ChatID: int64(123),
			Text:   "test",
		})

		require.Error(t, err)
		require.Equal(t, "send failed", err.Error())
		require.Equal(t, 0, mockBot.SentMessageCount())
	})

	t.Run("increments message ID", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		ctx := context.Background()

		msg1, err := mockBot.SendMessage(ctx, &bot.SendMessageParams{ChatID: int64(1), Text: "a"})
		require.NoError(t, err)
		msg2, err := mockBot.SendMessage(ctx, &bot.SendMessageParams{ChatID: int64(1), Text: "b"})
		require.NoError(t, err)

		require.Equal(t, 1000, msg1.ID)
		require.Equal(t, 1001, msg2.ID)
	})
}

func TestMockBot_AnswerCallbackQuery(t *testing.T) {
	t.Parallel()

	t.Run("captures answer", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		ok, err := mockBot.AnswerCallbackQuery(context.Background(), &bot.AnswerCallbackQueryParams{
			CallbackQueryID: "cb-1",
		})
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, mockBot.AnsweredCallbacks, 1)
		require.Equal(t, "cb-1", mockBot.AnsweredCallbacks[0].CallbackQueryID)
	})

	t.Run("returns error when configured", func(t *testing.T) {
		t.Parallel()

		mockBot := NewMockBot()
		mockBot.AnswerCallbackError = errors.New("too old")
		ok, err := mockBot.AnswerCallbackQuery(context.Background(), &bot.AnswerCallbackQueryParams{
			CallbackQueryID: "cb-1",
		})
		require.Error(t, err)
		require.False(t, ok)
		require.Empty(t, mockBot.AnsweredCallbacks)
	})
}

func TestMockBot_Reset(t *testing.T) {
	t.Parallel()

	mockBot := NewMockBot()
	_, _ = mockBot.SendMessage(context.Background(), &bot.SendMessageParams{ChatID: int64(1), Text: "a"})
	_, _ = mockBot.AnswerCallbackQuery(context.Background(), &bot.AnswerCallbackQueryParams{CallbackQueryID: "x"})
	mockBot.SendMessageError = errors.New("boom")

	mockBot.Reset()

	require.Equal(t, 0, mockBot.SentMessageCount())
	require.Empty(t, mockBot.AnsweredCallbacks)
	require.NoError(t, mockBot.SendMessageError)
	require.Nil(t, mockBot.LastSentMessage())
}

func TestChatIDToInt64(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(5), chatIDToInt64(int64(5)))
	require.Equal(t, int64(7), chatIDToInt64(7))
	require.Equal(t, int64(0), chatIDToInt64("@channel"))
}
