package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrReactionNotFound = errors.New("reaction not found")
)

type Post struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Body      string `gorm:"not null"`
	ImageKey  string
	AuthorID  uint `gorm:"not null;index"`
	Published bool `gorm:"not null;default:true"`
	PublishAt *time.Time

	Groups    []Group    `gorm:"many2many:post_groups;"`
	Comments  []Comment  `gorm:"foreignKey:PostID"`
	Reactions []Reaction `gorm:"foreignKey:PostID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Comment struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;index"`
	UserID    uint `gorm:"not null"`
	User      User
	Body      string `gorm:"not null"`
	CreatedAt time.Time
}

type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;uniqueIndex:idx_reactions_post_user"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_reactions_post_user"`
	Kind      string `gorm:"not null"` // "like" or "dislike"
	CreatedAt time.Time
}

type PostDAO struct {
	db *gorm.DB
}

func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{
		db: db,
	}
}

func (d *PostDAO) Insert(ctx context.Context, post Post, groupIDs []uint) (Post, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Groups", "Comments", "Reactions").Create(&post).Error; err != nil {
			return err
		}

		return replacePostGroups(tx, &post, groupIDs)
	})
	if err != nil {
		return Post{}, err
	}

	return d.FindByID(ctx, post.ID)
}

func (d *PostDAO) Update(ctx context.Context, post Post, groupIDs []uint) (Post, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Post{ID: post.ID}).
			Updates(map[string]interface{}{
				"title":      post.Title,
				"body":       post.Body,
				"image_key":  post.ImageKey,
				"published":  post.Published,
				"publish_at": post.PublishAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		return replacePostGroups(tx, &post, groupIDs)
	})
	if err != nil {
		return Post{}, err
	}

	return d.FindByID(ctx, post.ID)
}

func replacePostGroups(tx *gorm.DB, post *Post, groupIDs []uint) error {
	groups := make([]Group, len(groupIDs))
	for i, id := range groupIDs {
		groups[i] = Group{ID: id}
	}

	return tx.Model(post).Association("Groups").Replace(groups)
}

// Delete removes the post together with its comments, reactions and group
// links in one transaction.
func (d *PostDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_groups WHERE post_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}

		return nil
	})
}

func (d *PostDAO) FindByID(ctx context.Context, id uint) (Post, error) {
	var post Post

	result := d.db.WithContext(ctx).
		Preload("Groups").
		Preload("Comments").
		Preload("Reactions").
		First(&post, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Post{}, ErrPostNotFound
		}

		return Post{}, result.Error
	}

	return post, nil
}

func (d *PostDAO) FindAll(ctx context.Context) ([]Post, error) {
	var posts []Post

	result := d.db.WithContext(ctx).
		Preload("Groups").
		Preload("Comments").
		Preload("Reactions").
		Order("created_at desc").
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	return posts, nil
}

func (d *PostDAO) FindPublished(ctx context.Context) ([]Post, error) {
	var posts []Post

	result := d.db.WithContext(ctx).
		Preload("Groups").
		Preload("Comments").
		Preload("Reactions").
		Where("published").
		Order("created_at desc").
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	return posts, nil
}

// PublishDue flips posts whose publish_at has passed and returns them so the
// caller can fan the event out to live clients.
func (d *PostDAO) PublishDue(ctx context.Context, now time.Time) ([]Post, error) {
	var due []Post

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("NOT published AND publish_at IS NOT NULL AND publish_at <= ?", now).
			Find(&due).Error; err != nil {
			return err
		}
		if len(due) == 0 {
			return nil
		}

		ids := make([]uint, len(due))
		for i, p := range due {
			ids[i] = p.ID
		}

		return tx.Model(&Post{}).
			Where("id IN ?", ids).
			Update("published", true).Error
	})
	if err != nil {
		return nil, err
	}

	for i := range due {
		due[i].Published = true
	}

	return due, nil
}

func (d *PostDAO) InsertComment(ctx context.Context, comment Comment) (Comment, error) {
	result := d.db.WithContext(ctx).Omit("User").Create(&comment)
	if result.Error != nil {
		return Comment{}, result.Error
	}

	return comment, nil
}

func (d *PostDAO) FindCommentByID(ctx context.Context, id uint) (Comment, error) {
	var comment Comment

	result := d.db.WithContext(ctx).First(&comment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Comment{}, ErrCommentNotFound
		}

		return Comment{}, result.Error
	}

	return comment, nil
}

func (d *PostDAO) FindCommentsByPostID(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment

	result := d.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}

	return comments, nil
}

func (d *PostDAO) DeleteComment(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// React toggles the caller's reaction: repeating the current kind removes it,
// anything else upserts the new kind over the (post, user) unique index.
func (d *PostDAO) React(ctx context.Context, postID, userID uint, kind string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Reaction
		err := tx.First(&existing, "post_id = ? AND user_id = ?", postID, userID).Error
		if err == nil && existing.Kind == kind {
			return tx.Delete(&Reaction{}, existing.ID).Error
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reaction := Reaction{PostID: postID, UserID: userID, Kind: kind}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"kind": kind}),
		}).Create(&reaction).Error
	})
}
