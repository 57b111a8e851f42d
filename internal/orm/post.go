package orm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostKind int

const (
	PostKindText PostKind = iota
	PostKindImage
	PostKindVideo
)

type Post struct {
	ID       uuid.UUID `gorm:"primaryKey"`
	AuthorID uuid.UUID `gorm:"index"`
	Author   User      `gorm:"foreignKey:AuthorID"`
	Content  string
	// Images holds the ordered media references as a JSON-encoded array of
	// strings; lib.EncodeMediaRefs/DecodeMediaRefs own the format.
	Images       string
	VideoURL     *string
	LikeCount    int
	UnlikeCount  int
	CommentCount int
	Kind         int
	CategoryID   *int64 `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Post) TableName() string {
	return "post"
}

func (p *Post) BeforeCreate(transaction *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p Post) GetID() uuid.UUID {
	return p.ID
}

func (p Post) GetCreatedAt() time.Time {
	return p.CreatedAt
}

func (c *DatabaseClient) SelectPostByID(id string) (*Post, error) {
	var post Post
	tx := c.database.
		Select([]string{
			"id",
			"author_id",
			"content",
			"images",
			"video_url",
			"like_count",
			"unlike_count",
			"comment_count",
			"kind",
			"category_id",
			"created_at",
			"updated_at",
		}).
		Where("id = ?", id).
		Preload("Author").
		First(&post)

	if tx.Error != nil {
		return nil, tx.Error
	}

	return &post, nil
}

// SelectPostsPage returns one feed page, newest first. authorID and
// categoryID are optional filters; offset is page*limit as computed by
// lib.NormalizePage. A zero categoryID means no category filter; 0 has never
// been a valid category id.
func (c *DatabaseClient) SelectPostsPage(authorID string, categoryID int64, offset int, limit int) ([]*Post, error) {
	var posts []*Post
	query := c.database.
		Select([]string{
			"id",
			"author_id",
			"content",
			"images",
			"video_url",
			"like_count",
			"unlike_count",
			"comment_count",
			"kind",
			"category_id",
			"created_at",
			"updated_at",
		}).
		Order("created_at DESC, id DESC")

	if authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	tx := query.Offset(offset).Limit(limit).Find(&posts)
	if tx.Error != nil {
		return nil, tx.Error
	}

	return posts, nil
}

func (c *DatabaseClient) InsertPost(post *Post) error {
	tx := c.database.Create(post)
	return tx.Error
}

// UpdatePostCounters rewrites the denormalized reaction counters for a post.
// Only the audit worker calls this; request-path counter changes go through
// the ledger transactions in post_interaction.go.
func (c *DatabaseClient) UpdatePostCounters(postID uuid.UUID, likeCount int, unlikeCount int) error {
	tx := c.database.Model(&Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"like_count":   likeCount,
			"unlike_count": unlikeCount,
		})
	return tx.Error
}
