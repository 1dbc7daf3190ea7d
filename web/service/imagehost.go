package service

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/util/common"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// ImageHostService uploads images to the Cloudinary HTTP API and returns the
// hosted URL. Uploads are signed with the account's API secret.
type ImageHostService struct {
	client *resty.Client
}

func NewImageHostService() *ImageHostService {
	return &ImageHostService{
		client: resty.New().
			SetBaseURL("https://api.cloudinary.com/v1_1").
			SetTimeout(30 * time.Second),
	}
}

type uploadResult struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file at path into the given folder and returns the
// hosted secure URL.
func (s *ImageHostService) Upload(path, folder string) (string, error) {
	cloudName := config.GetCloudinaryCloudName()
	apiKey := config.GetCloudinaryAPIKey()
	apiSecret := config.GetCloudinaryAPISecret()
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", common.NewError("cloudinary is not configured")
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := signUpload(folder, timestamp, apiSecret)

	resp, err := s.client.R().
		SetFile("file", path).
		SetFormData(map[string]string{
			"api_key":   apiKey,
			"timestamp": timestamp,
			"folder":    folder,
			"signature": signature,
		}).
		Post("/" + cloudName + "/image/upload")
	if err != nil {
		return "", err
	}

	var result uploadResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", err
	}
	if resp.IsError() || result.SecureURL == "" {
		if result.Error.Message != "" {
			return "", common.NewErrorf("cloudinary: %s", result.Error.Message)
		}
		return "", common.NewErrorf("cloudinary responded %s", resp.Status())
	}
	return result.SecureURL, nil
}

// signUpload builds the SHA-1 signature over the sorted upload parameters,
// as the Cloudinary API requires.
func signUpload(folder, timestamp, secret string) string {
	toSign := fmt.Sprintf("folder=%s&timestamp=%s%s", folder, timestamp, secret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
