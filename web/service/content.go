package service

import (
	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"
)

type ContentService struct{}

func (s *ContentService) GetContent(pageName string) (*model.PageContent, error) {
	db := database.GetDB()
	content := &model.PageContent{}
	err := db.Model(model.PageContent{}).
		Where("page_name = ?", pageName).
		First(content).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return content, nil
}

// UpdateContent upserts the block for a page.
func (s *ContentService) UpdateContent(pageName, title, content string) error {
	db := database.GetDB()
	pc := &model.PageContent{}
	return db.Where(model.PageContent{PageName: pageName}).
		Assign(map[string]any{"title": title, "content": content}).
		FirstOrCreate(pc).
		Error
}
