package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is one registered member. The password column only ever holds a
// bcrypt hash; plaintext is hashed before it reaches this struct.
type User struct {
	Id            int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null"`
	Password      string    `json:"-" gorm:"not null"`
	Name          string    `json:"name"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	Role          string    `json:"role" gorm:"not null;default:user"`
	EmailVerified bool      `json:"emailVerified" gorm:"not null;default:false"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Title is an admin-curated label assignable to users. Deleting one clears
// it from every holder; there is no foreign key.
type Title struct {
	Id   int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Post is a notice board entry.
type Post struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title      string    `json:"title" gorm:"not null"`
	Content    string    `json:"content" gorm:"not null"`
	AuthorId   int       `json:"authorId" gorm:"index"`
	AuthorName string    `json:"authorName"`
	Comments   []Comment `json:"comments" gorm:"foreignKey:PostId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Comment belongs to a post.
type Comment struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	PostId     int       `json:"postId" gorm:"index;not null"`
	Text       string    `json:"text" gorm:"not null"`
	AuthorId   int       `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Sermon is one uploaded bulletin image, hosted externally.
type Sermon struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Filename   string    `json:"filename"`
	ImageURL   string    `json:"imageUrl" gorm:"not null"`
	UploadDate time.Time `json:"uploadDate"`
	UploaderId int       `json:"uploaderId"`
}

// PageContent is an admin-editable block shown on a public page.
type PageContent struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	PageName string `json:"pageName" gorm:"uniqueIndex;not null"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}
