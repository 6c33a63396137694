// Package domain defines the core entities of the news board: topics,
// users, articles, and comments.
package domain

import "time"

// DefaultArticleImgURL is applied when an article is created without an
// explicit image URL.
const DefaultArticleImgURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// Topic is a board category. The slug is the primary identifier and is
// referenced by Article.Topic.
type Topic struct {
	Slug        string
	Description string
}

// User is a registered author. Users are read-only in this service and are
// referenced by Article.Author and Comment.Author.
type User struct {
	Username  string
	Name      string
	AvatarURL string
}

// Article is a posted story. CommentCount is derived from the comments
// table at query time and is never stored.
type Article struct {
	ArticleID     int64
	Title         string
	Topic         string
	Author        string
	Body          string
	CreatedAt     time.Time
	Votes         int
	ArticleImgURL string
	CommentCount  int
}

// Comment is a reply posted under an article.
type Comment struct {
	CommentID int64
	ArticleID int64
	Author    string
	Body      string
	Votes     int
	CreatedAt time.Time
}

// NewArticle builds an Article ready for insertion, applying the default
// image URL when none is supplied. Votes and CreatedAt are left for the
// database defaults.
func NewArticle(author, title, body, topic, imgURL string) *Article {
	if imgURL == "" {
		imgURL = DefaultArticleImgURL
	}
	return &Article{
		Title:         title,
		Topic:         topic,
		Author:        author,
		Body:          body,
		ArticleImgURL: imgURL,
	}
}
