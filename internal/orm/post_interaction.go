package orm

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefeed-app/backend/internal/lib"
)

type Reaction int

const (
	ReactionNone Reaction = iota
	ReactionLike
	ReactionDislike
)

func (r Reaction) String() string {
	switch r {
	case ReactionLike:
		return "like"
	case ReactionDislike:
		return "dislike"
	default:
		return "none"
	}
}

// PostInteraction records a user's current reaction to a post. At most one
// row exists per (user, post) pair; the unique index is the backstop for
// concurrent first reactions. A row is deleted when the reaction returns to
// none, so ReactionNone is never stored.
type PostInteraction struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_post_interaction_pair"`
	PostID    uuid.UUID `gorm:"uniqueIndex:idx_post_interaction_pair"`
	Reaction  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i *PostInteraction) TableName() string {
	return "post_interaction"
}

func (i *PostInteraction) BeforeCreate(transaction *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (c *DatabaseClient) SelectInteraction(userID uuid.UUID, postID uuid.UUID) (*PostInteraction, error) {
	var interaction PostInteraction
	tx := c.database.
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&interaction)

	if tx.Error != nil {
		return nil, tx.Error
	}

	return &interaction, nil
}

func (c *DatabaseClient) CountInteractions(postID uuid.UUID, reaction Reaction) (int64, error) {
	var count int64
	tx := c.database.Model(&PostInteraction{}).
		Where("post_id = ? AND reaction = ?", postID, int(reaction)).
		Count(&count)
	return count, tx.Error
}

// AddReaction applies a like or dislike for the (user, post) pair. The row
// upsert and the counter adjustment commit in one transaction. Repeating the
// current reaction fails with lib.ErrAlreadyReacted, as does losing an insert
// race to the unique pair index.
func (c *DatabaseClient) AddReaction(userID uuid.UUID, postID uuid.UUID, target Reaction) error {
	return c.database.Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}

		var interaction PostInteraction
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&interaction).Error
		switch {
		case err == nil:
			if Reaction(interaction.Reaction) == target {
				return lib.ErrAlreadyReacted
			}
			// The pair holds the opposite reaction: flip it in place. The
			// reaction guard in the WHERE clause makes the flip a no-op when
			// a concurrent request got there first.
			flip := tx.Model(&PostInteraction{}).
				Where("id = ? AND reaction = ?", interaction.ID, interaction.Reaction).
				Update("reaction", int(target))
			if flip.Error != nil {
				return flip.Error
			}
			if flip.RowsAffected == 0 {
				return lib.ErrAlreadyReacted
			}
			if err := bumpCounter(tx, postID, opposite(target), -1); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			interaction = PostInteraction{
				UserID:   userID,
				PostID:   postID,
				Reaction: int(target),
			}
			if err := tx.Create(&interaction).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return lib.ErrAlreadyReacted
				}
				return err
			}
		default:
			return err
		}

		return bumpCounter(tx, postID, target, +1)
	})
}

// RemoveReaction clears a like or dislike. Only a row recording the matching
// reaction is deleted, but the counter decrement applies unconditionally:
// the wire contract has always decremented even with no matching row, and
// clients depend on that. The floor keeps the counter at zero in that case.
func (c *DatabaseClient) RemoveReaction(userID uuid.UUID, postID uuid.UUID, target Reaction) error {
	return c.database.Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}

		del := tx.
			Where("user_id = ? AND post_id = ? AND reaction = ?", userID, postID, int(target)).
			Delete(&PostInteraction{})
		if del.Error != nil {
			return del.Error
		}

		return bumpCounter(tx, postID, target, -1)
	})
}

func requirePost(tx *gorm.DB, postID uuid.UUID) error {
	var post Post
	if err := tx.Select("id").Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lib.ErrNotFound
		}
		return err
	}
	return nil
}

func opposite(reaction Reaction) Reaction {
	if reaction == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

func counterColumn(reaction Reaction) string {
	if reaction == ReactionLike {
		return "like_count"
	}
	return "unlike_count"
}

// bumpCounter adjusts a post's like or unlike counter in SQL so concurrent
// transactions never apply a stale read. Decrements floor at zero.
func bumpCounter(tx *gorm.DB, postID uuid.UUID, reaction Reaction, delta int) error {
	column := counterColumn(reaction)

	var expr interface{}
	if delta > 0 {
		expr = gorm.Expr(column + " + 1")
	} else {
		expr = gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
	}

	return tx.Model(&Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, expr).Error
}
