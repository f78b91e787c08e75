package storage

import (
	"context"
	"time"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/google/uuid"
)

// Chat channels recorded with each exchange.
const (
	ChannelText      = "text"
	ChannelVoice     = "voice"
	ChannelWebSocket = "ws"
)

type chatRow struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Channel   string `db:"channel"`
	Message   string `db:"message"`
	Response  string `db:"response"`
	CreatedAt int64  `db:"created_at"`
}

func SaveChatMessage(ctx context.Context, username, channel, message, response string) error {
	_, err := db.ExecContext(ctx,
		rebind("INSERT INTO chat_messages(id, username, channel, message, response, created_at) VALUES(?, ?, ?, ?, ?, ?)"),
		uuid.NewString(), username, channel, message, response, time.Now().UnixNano())
	return err
}

// ListChatMessages returns the user's exchanges newest first.
func ListChatMessages(ctx context.Context, username string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var rows []chatRow
	err := db.SelectContext(ctx, &rows, rebind(`
		SELECT id, username, channel, message, response, created_at
		FROM chat_messages
		WHERE username = ?
		ORDER BY created_at DESC
		LIMIT ?`), username, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]models.ChatMessage, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, models.ChatMessage{
			ID:        r.ID,
			Username:  r.Username,
			Channel:   r.Channel,
			Message:   r.Message,
			Response:  r.Response,
			CreatedAt: time.Unix(0, r.CreatedAt).UTC(),
		})
	}
	return messages, nil
}
