package service

import (
	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"

	"gorm.io/gorm"
)

type TitleService struct{}

func (s *TitleService) ListTitles() ([]model.Title, error) {
	db := database.GetDB()
	var titles []model.Title
	err := db.Model(model.Title{}).Order("id").Find(&titles).Error
	return titles, err
}

func (s *TitleService) AddTitle(name string) error {
	db := database.GetDB()
	var count int64
	if err := db.Model(model.Title{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTitleTaken
	}
	return db.Create(&model.Title{Name: name}).Error
}

// DeleteTitle removes a title and clears it from every member holding it.
// The cascade is the clearing update; there is no foreign key behind it.
func (s *TitleService) DeleteTitle(name string) error {
	db := database.GetDB()
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(model.User{}).
			Where("title = ?", name).
			Update("title", "").
			Error; err != nil {
			return err
		}
		result := tx.Where("name = ?", name).Delete(&model.Title{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
