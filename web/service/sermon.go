package service

import (
	"time"

	"github.com/hanlovechurch/church-ui/database"
	"github.com/hanlovechurch/church-ui/database/model"
)

const sermonFolder = "church_sermons"

type SermonService struct {
	imageHost *ImageHostService
}

func NewSermonService(imageHost *ImageHostService) *SermonService {
	return &SermonService{imageHost: imageHost}
}

func (s *SermonService) ListSermons() ([]model.Sermon, error) {
	db := database.GetDB()
	var sermons []model.Sermon
	err := db.Model(model.Sermon{}).Order("upload_date DESC").Find(&sermons).Error
	return sermons, err
}

// Upload pushes one bulletin image to the image host and records it.
func (s *SermonService) Upload(path, filename string, uploaderId int) (*model.Sermon, error) {
	url, err := s.imageHost.Upload(path, sermonFolder)
	if err != nil {
		return nil, err
	}

	sermon := &model.Sermon{
		Filename:   filename,
		ImageURL:   url,
		UploadDate: time.Now(),
		UploaderId: uploaderId,
	}
	db := database.GetDB()
	if err := db.Create(sermon).Error; err != nil {
		return nil, err
	}
	return sermon, nil
}
