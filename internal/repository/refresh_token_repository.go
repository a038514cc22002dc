package repository

import (
	"TaskTracker/internal/errs"
	"context"
	"database/sql"
)

// SetRefreshToken безусловно заменяет сохраненный refresh токен; nil очищает его.
// Обновляется только одно поле, остальные не проверяются.
func (repository *UserRepository) SetRefreshToken(ctx context.Context, id string, token *string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE id = $1`
	return repository.execOne(ctx, query, id, nullString(token))
}

// SwapRefreshToken заменяет refresh токен только если сохранен именно presented.
// Сравнение и замена выполняются одним UPDATE, поэтому из двух одновременных
// ротаций одного токена успешна только одна.
func (repository *UserRepository) SwapRefreshToken(ctx context.Context, id string, presented string, next string) error {
	query := `UPDATE users SET refresh_token = $3 WHERE id = $1 AND refresh_token = $2`

	result, err := repository.DB.ExecContext(ctx, query, id, presented, next)
	if err != nil {
		return errs.Internal("не удалось обновить рефреш токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errs.Internal("не удалось проверить, обновлен ли токен", err)
	}
	if rowsAffected == 0 {
		return errs.NotFound("refresh token not found")
	}

	return nil
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
