package job

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/logger"
	"github.com/hanlovechurch/church-ui/util/common"
)

// stale temp files older than this are removed on each run
const uploadMaxAge = time.Hour

// ClearUploadsJob purges temp files left in the upload folder by failed or
// interrupted image uploads. Successful uploads remove their temp file
// themselves.
type ClearUploadsJob struct{}

func NewClearUploadsJob() *ClearUploadsJob {
	return new(ClearUploadsJob)
}

// Here Run is an interface method of the Job interface
func (j *ClearUploadsJob) Run() {
	defer common.Recover("clear uploads job")

	folder := config.GetUploadFolder()
	entries, err := os.ReadDir(folder)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warning("clear uploads job err:", err)
		}
		return
	}

	cutoff := time.Now().Add(-uploadMaxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warning("clear uploads job err:", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(folder, entry.Name())); err != nil {
			logger.Warning("clear uploads job err:", err)
		}
	}
}
