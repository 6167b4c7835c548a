// Package notify delivers due-review reminders to the user.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends reminders to a single chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// SendReminder tells the user how many words are waiting for review.
func (t *Telegram) SendReminder(count int) error {
	wordForm := "words"
	if count == 1 {
		wordForm = "word"
	}
	msg := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("You have %d %s due for review.", count, wordForm))
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}
