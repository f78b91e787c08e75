package models

import "time"

// 회원 사용자 모델
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// 챗봇 대화 기록
type ChatMessage struct {
	ID        string    `json:"id"`
	Username  string    `json:"user"`
	Channel   string    `json:"channel"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
