package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("CHURCH_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("CHURCH_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("CHURCH_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/church-ui"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("CHURCH_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetListen() string {
	return os.Getenv("CHURCH_WEB_LISTEN")
}

func GetPort() string {
	port := os.Getenv("CHURCH_WEB_PORT")
	if port == "" {
		port = "3000"
	}
	return port
}

// GetWebDomain returns the expected Host header value; empty disables the check.
func GetWebDomain() string {
	return os.Getenv("CHURCH_WEB_DOMAIN")
}

func GetSessionSecret() string {
	return os.Getenv("CHURCH_SESSION_SECRET")
}

// GetSessionMaxAge returns the session lifetime in seconds.
func GetSessionMaxAge() int {
	return 60 * 60
}

func GetUploadFolder() string {
	uploadFolderPath := os.Getenv("CHURCH_UPLOAD_FOLDER")
	if uploadFolderPath == "" {
		uploadFolderPath = "uploads"
	}
	return uploadFolderPath
}

func GetStaticFolder() string {
	staticFolderPath := os.Getenv("CHURCH_STATIC_FOLDER")
	if staticFolderPath == "" {
		staticFolderPath = "public"
	}
	return staticFolderPath
}

func GetMailgunDomain() string {
	return os.Getenv("CHURCH_MAILGUN_DOMAIN")
}

func GetMailgunAPIKey() string {
	return os.Getenv("CHURCH_MAILGUN_API_KEY")
}

// GetMailFrom returns the sender address for outgoing mail.
func GetMailFrom() string {
	from := os.Getenv("CHURCH_MAIL_FROM")
	if from == "" {
		from = fmt.Sprintf("Hanlove Church <hanlove@%s>", GetMailgunDomain())
	}
	return from
}

func GetCloudinaryCloudName() string {
	return os.Getenv("CHURCH_CLOUDINARY_CLOUD_NAME")
}

func GetCloudinaryAPIKey() string {
	return os.Getenv("CHURCH_CLOUDINARY_API_KEY")
}

func GetCloudinaryAPISecret() string {
	return os.Getenv("CHURCH_CLOUDINARY_API_SECRET")
}
