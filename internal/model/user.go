package model

import "time"

// User это запись пользователя в хранилище учетных данных.
// PasswordHash и RefreshToken никогда не сериализуются в ответы.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"fullName"`
	PasswordHash string    `db:"password_hash" json:"-"`
	RefreshToken *string   `db:"refresh_token" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity это аутентифицированная личность, которую верификатор сессии кладет в контекст запроса.
type Identity struct {
	UserID   string
	Username string
}

func (user *User) Identity() Identity {
	return Identity{UserID: user.ID, Username: user.Username}
}

// HasRefreshToken сообщает, совпадает ли переданный токен с сохраненным побайтно.
func (user *User) HasRefreshToken(token string) bool {
	return user.RefreshToken != nil && *user.RefreshToken == token
}
