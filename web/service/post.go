package service

import (
	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"

	"gorm.io/gorm"
)

type PostService struct{}

func (s *PostService) ListPosts() ([]model.Post, error) {
	db := database.GetDB()
	var posts []model.Post
	err := db.Model(model.Post{}).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (s *PostService) GetPost(id int) (*model.Post, error) {
	db := database.GetDB()
	post := &model.Post{}
	err := db.Model(model.Post{}).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at")
		}).
		Where("id = ?", id).
		First(post).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) CreatePost(caller *model.User, title, content string) (*model.Post, error) {
	db := database.GetDB()
	post := &model.Post{
		Title:      title,
		Content:    content,
		AuthorId:   caller.Id,
		AuthorName: caller.Name,
	}
	if err := db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost rewrites a post. Only the author or an admin may do so.
func (s *PostService) UpdatePost(caller *model.User, id int, title, content string) error {
	post, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if !canModify(caller, post.AuthorId) {
		return ErrForbidden
	}
	db := database.GetDB()
	return db.Model(model.Post{}).
		Where("id = ?", id).
		Updates(map[string]any{"title": title, "content": content}).
		Error
}

// DeletePost removes a post and its comments. Only the author or an admin.
func (s *PostService) DeletePost(caller *model.User, id int) error {
	post, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if !canModify(caller, post.AuthorId) {
		return ErrForbidden
	}
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}

func (s *PostService) AddComment(caller *model.User, postId int, text string) (*model.Comment, error) {
	if _, err := s.GetPost(postId); err != nil {
		return nil, err
	}
	db := database.GetDB()
	comment := &model.Comment{
		PostId:     postId,
		Text:       text,
		AuthorId:   caller.Id,
		AuthorName: caller.Name,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) UpdateComment(caller *model.User, postId, commentId int, text string) error {
	comment, err := s.getComment(postId, commentId)
	if err != nil {
		return err
	}
	if !canModify(caller, comment.AuthorId) {
		return ErrForbidden
	}
	db := database.GetDB()
	return db.Model(model.Comment{}).
		Where("id = ?", commentId).
		Update("text", text).
		Error
}

func (s *PostService) DeleteComment(caller *model.User, postId, commentId int) error {
	comment, err := s.getComment(postId, commentId)
	if err != nil {
		return err
	}
	if !canModify(caller, comment.AuthorId) {
		return ErrForbidden
	}
	db := database.GetDB()
	return db.Where("id = ?", commentId).Delete(&model.Comment{}).Error
}

func (s *PostService) getComment(postId, commentId int) (*model.Comment, error) {
	db := database.GetDB()
	comment := &model.Comment{}
	err := db.Model(model.Comment{}).
		Where("id = ? AND post_id = ?", commentId, postId).
		First(comment).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return comment, nil
}

func canModify(caller *model.User, authorId int) bool {
	return caller.Id == authorId || caller.Role == model.RoleAdmin
}
