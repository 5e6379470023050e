package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func cardSelect() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"id", "deck_id", "front_content", "back_content", "front_image_url", "back_image_url",
		"interval_days", "ease_factor", "next_review_date", "review_count", "success_rate", "created_at",
	).From("cards")
}

func scopeFilter(q squirrel.SelectBuilder, scope models.Scope) squirrel.SelectBuilder {
	if scope.IsAllDecks() {
		return q
	}
	return q.Where(squirrel.Eq{"deck_id": scope.DeckID})
}

func scanCard(row interface{ Scan(...any) error }) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.DeckID, &c.FrontContent, &c.BackContent, &c.FrontImageURL, &c.BackImageURL,
		&c.IntervalDays, &c.EaseFactor, &c.NextReviewDate, &c.ReviewCount, &c.SuccessRate, &c.CreatedAt)
	return c, err
}

func (r *cardRepository) queryCards(ctx context.Context, q squirrel.SelectBuilder) ([]models.Card, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	sqlStr, args, err := cardSelect().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanCard(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) List(ctx context.Context, scope models.Scope) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d", scope.DeckID)

	q := scopeFilter(cardSelect(), scope).OrderBy("created_at DESC", "id DESC")
	cards, err := r.queryCards(ctx, q)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) DueCards(ctx context.Context, scope models.Scope, now time.Time) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching due cards: deck_id=%d", scope.DeckID)

	q := scopeFilter(cardSelect(), scope).
		Where(squirrel.Gt{"review_count": 0}).
		Where(squirrel.LtOrEq{"next_review_date": now}).
		OrderBy("next_review_date ASC", "id ASC")
	cards, err := r.queryCards(ctx, q)
	if err != nil {
		log.Error("failed to fetch due cards: %v", err)
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func (r *cardRepository) NewCards(ctx context.Context, scope models.Scope, limit int) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching new cards: deck_id=%d, limit=%d", scope.DeckID, limit)

	q := scopeFilter(cardSelect(), scope).
		Where(squirrel.Eq{"review_count": 0}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	cards, err := r.queryCards(ctx, q)
	if err != nil {
		log.Error("failed to fetch new cards: %v", err)
		return nil, err
	}
	log.Debug("found %d new cards", len(cards))
	return cards, nil
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (deck_id, front_content, back_content, front_image_url, back_image_url,
                   interval_days, ease_factor, next_review_date, review_count, success_rate)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.DeckID, c.FrontContent, c.BackContent, c.FrontImageURL, c.BackImageURL,
		c.IntervalDays, c.EaseFactor, c.NextReviewDate, c.ReviewCount, c.SuccessRate)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Update(ctx context.Context, id int64, fields models.CardUpdate) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d", id)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET deck_id = ?, front_content = ?, back_content = ?, front_image_url = ?, back_image_url = ?
WHERE id = ?
`, fields.DeckID, fields.FrontContent, fields.BackContent, fields.FrontImageURL, fields.BackImageURL, id)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyReview writes the card's new scheduling state and the review record in
// one transaction, so a rating either fully lands or not at all.
func (r *cardRepository) ApplyReview(ctx context.Context, c models.Card, review models.Review) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying review: card_id=%d, score=%d, interval=%d, ease=%.2f",
		c.ID, review.PerformanceScore, c.IntervalDays, c.EaseFactor)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction: %v", err)
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE cards
SET interval_days = ?, ease_factor = ?, next_review_date = ?, review_count = ?, success_rate = ?
WHERE id = ?
`, c.IntervalDays, c.EaseFactor, c.NextReviewDate, c.ReviewCount, c.SuccessRate, c.ID)
	if err != nil {
		log.Error("failed to update card scheduling: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO reviews (card_id, performance_score, time_taken, success, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, review.CardID, review.PerformanceScore, review.TimeTaken, review.Success, review.ReviewedAt); err != nil {
		log.Error("failed to insert review: %v", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit review: %v", err)
		return err
	}
	return nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cardRepository) Reviews(ctx context.Context, cardID int64, limit int) ([]models.Review, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching reviews: card_id=%d, limit=%d", cardID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, card_id, performance_score, time_taken, success, reviewed_at
FROM reviews
WHERE card_id = ?
ORDER BY reviewed_at DESC, id DESC
LIMIT ?
`, cardID, limit)
	if err != nil {
		log.Error("failed to query reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.CardID, &rv.PerformanceScore, &rv.TimeTaken, &rv.Success, &rv.ReviewedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
