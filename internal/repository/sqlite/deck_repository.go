package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/models"
	"github.com/dewdrop/dewdrop/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

const deckColumns = `id, parent_deck_id, name, description, front_label, back_label, created_at`

func scanDeck(row interface{ Scan(...any) error }) (models.Deck, error) {
	var d models.Deck
	var parent sql.NullInt64
	err := row.Scan(&d.ID, &parent, &d.Name, &d.Description, &d.FrontLabel, &d.BackLabel, &d.CreatedAt)
	if parent.Valid {
		d.ParentDeckID = &parent.Int64
	}
	return d, err
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	d, err := scanDeck(r.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) queryDecks(ctx context.Context, query string, args ...any) ([]models.Deck, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *deckRepository) List(ctx context.Context) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks")

	decks, err := r.queryDecks(ctx, `SELECT `+deckColumns+` FROM decks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	log.Debug("found %d decks", len(decks))
	return decks, nil
}

func (r *deckRepository) Children(ctx context.Context, parentID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing child decks: parent_id=%d", parentID)

	decks, err := r.queryDecks(ctx, `SELECT `+deckColumns+` FROM decks WHERE parent_deck_id = ? ORDER BY created_at DESC, id DESC`, parentID)
	if err != nil {
		log.Error("failed to list child decks: %v", err)
		return nil, err
	}
	return decks, nil
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: name=%s", d.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO decks (parent_deck_id, name, description, front_label, back_label)
VALUES (?, ?, ?, ?, ?)
`, d.ParentDeckID, d.Name, d.Description, d.FrontLabel, d.BackLabel)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Update(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", d.ID)

	res, err := r.db.ExecContext(ctx, `
UPDATE decks
SET parent_deck_id = ?, name = ?, description = ?, front_label = ?, back_label = ?
WHERE id = ?
`, d.ParentDeckID, d.Name, d.Description, d.FrontLabel, d.BackLabel, d.ID)
	if err != nil {
		log.Error("failed to update deck: %v", err)
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

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
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
