// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"parley/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var tagPool = []string{
	"go", "backend", "databases", "devops", "cloud", "testing",
	"books", "music", "travel", "food", "fitness", "photography",
	"gaming", "linux", "ai", "startups",
}

// Seed populates the database with fake users, posts, tags, comments,
// replies and likes. Counters are written directly so the seeded data
// matches what the like transactions would have produced.
func Seed(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return err
	}
	comments, err := createComments(db, users, posts)
	if err != nil {
		return err
	}
	if err := createLikes(db, users, posts, comments); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d posts, %d comments", len(users), len(posts), len(comments))
	return nil
}

func clearData(db *gorm.DB) error {
	// Delete in dependency order so foreign keys never block.
	for _, table := range []string{"comment_likes", "comments", "post_likes", "tags", "posts", "images", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// mobileNumber builds a 10-digit number that cannot collide across calls
// within one seeding run.
func mobileNumber(n int) string {
	return fmt.Sprintf("9%09d", n)
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		user := models.User{
			Name:         name,
			MobileNumber: mobileNumber(i),
			Email: fmt.Sprintf("%s%d@%s",
				strings.ToLower(strings.ReplaceAll(name, " ", ".")), i, gofakeit.DomainName()),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := models.Post{
			Content: gofakeit.Paragraph(1, rand.Intn(3)+1, rand.Intn(10)+5, " "),
			UserID:  author.ID,
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}

		for _, label := range pickTags(rand.Intn(4)) {
			tag := models.Tag{PostID: post.ID, Label: label}
			if err := db.Create(&tag).Error; err != nil {
				return nil, fmt.Errorf("failed to create tag: %w", err)
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func pickTags(n int) []string {
	labels := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(labels) < n {
		label := tagPool[rand.Intn(len(tagPool))]
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels
}

// createComments gives roughly half the users a top-level comment on each
// post, and some of those a reply from another user. The one-comment-per-user
// and one-reply-per-user rules hold by construction.
func createComments(db *gorm.DB, users []models.User, posts []models.Post) ([]models.Comment, error) {
	var comments []models.Comment
	for _, post := range posts {
		for _, user := range users {
			if rand.Intn(2) == 0 {
				continue
			}
			comment := models.Comment{
				Content: gofakeit.Sentence(rand.Intn(10) + 3),
				UserID:  user.ID,
				PostID:  post.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			comments = append(comments, comment)

			if rand.Intn(3) == 0 {
				replier := users[rand.Intn(len(users))]
				if replier.ID == user.ID {
					continue
				}
				reply := models.Comment{
					Content:         gofakeit.Sentence(rand.Intn(8) + 2),
					UserID:          replier.ID,
					PostID:          post.ID,
					ParentCommentID: &comment.ID,
				}
				if err := db.Create(&reply).Error; err != nil {
					return nil, fmt.Errorf("failed to create reply: %w", err)
				}
				comments = append(comments, reply)
			}
		}
	}
	return comments, nil
}

func createLikes(db *gorm.DB, users []models.User, posts []models.Post, comments []models.Comment) error {
	for _, post := range posts {
		count := 0
		for _, user := range users {
			if rand.Intn(3) != 0 {
				continue
			}
			like := models.PostLike{UserID: user.ID, PostID: post.ID}
			if err := db.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create post like: %w", err)
			}
			count++
		}
		if err := db.Model(&models.Post{}).Where("id = ?", post.ID).
			UpdateColumn("like_count", count).Error; err != nil {
			return err
		}
	}

	for _, comment := range comments {
		count := 0
		for _, user := range users {
			if rand.Intn(5) != 0 {
				continue
			}
			like := models.CommentLike{UserID: user.ID, CommentID: comment.ID}
			if err := db.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to create comment like: %w", err)
			}
			count++
		}
		if err := db.Model(&models.Comment{}).Where("id = ?", comment.ID).
			UpdateColumn("like_count", count).Error; err != nil {
			return err
		}
	}
	return nil
}
