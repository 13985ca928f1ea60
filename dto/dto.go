package dto

import (
	"fmt"

	"photofeed/feed"
)

// APIRoot is the prefix of every REST resource.
const APIRoot = "/api/v1/"

// CreatedLayout is how post timestamps are rendered in JSON.
const CreatedLayout = "2006-01-02 15:04:05"

// ServicesDTO lists the REST resources.
type ServicesDTO struct {
	Comments string `json:"comments"`
	Likes    string `json:"likes"`
	Posts    string `json:"posts"`
	URL      string `json:"url"`
}

// PostRefDTO is one entry of the paginated post collection.
type PostRefDTO struct {
	PostID int64  `json:"postid"`
	URL    string `json:"url"`
}

type PostPageDTO struct {
	Next    string       `json:"next"`
	Results []PostRefDTO `json:"results"`
	URL     string       `json:"url"`
}

type CommentDTO struct {
	CommentID       int64  `json:"commentid"`
	LognameOwnsThis bool   `json:"lognameOwnsThis"`
	Owner           string `json:"owner"`
	OwnerShowURL    string `json:"ownerShowUrl"`
	Text            string `json:"text"`
	URL             string `json:"url"`
}

// LikesDTO is the aggregated like state of a post. URL is null unless the
// viewer likes the post, in which case it deletes that like.
type LikesDTO struct {
	LognameLikesThis bool    `json:"lognameLikesThis"`
	NumLikes         int     `json:"numLikes"`
	URL              *string `json:"url"`
}

type PostDTO struct {
	Comments     []CommentDTO `json:"comments"`
	CommentsURL  string       `json:"comments_url"`
	Created      string       `json:"created"`
	ImgURL       string       `json:"imgUrl"`
	Likes        LikesDTO     `json:"likes"`
	Owner        string       `json:"owner"`
	OwnerImgURL  string       `json:"ownerImgUrl"`
	OwnerShowURL string       `json:"ownerShowUrl"`
	PostShowURL  string       `json:"postShowUrl"`
	PostID       int64        `json:"postid"`
	URL          string       `json:"url"`
}

type LikeDTO struct {
	LikeID int64  `json:"likeid"`
	URL    string `json:"url"`
}

type ErrorDTO struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func PostURL(postID int64) string {
	return fmt.Sprintf("%sposts/%d/", APIRoot, postID)
}

func LikeURL(likeID int64) string {
	return fmt.Sprintf("%slikes/%d/", APIRoot, likeID)
}

func CommentURL(commentID int64) string {
	return fmt.Sprintf("%scomments/%d/", APIRoot, commentID)
}

func UploadURL(filename string) string {
	return "/uploads/" + filename
}

func UserShowURL(username string) string {
	return "/users/" + username + "/"
}

// NextPageURL builds the continuation link of a paginated collection.
func NextPageURL(size, page int, ceiling int64) string {
	return fmt.Sprintf("%sposts/?size=%d&page=%d&postid_lte=%d", APIRoot, size, page, ceiling)
}

func NewCommentDTO(c feed.CommentView) CommentDTO {
	return CommentDTO{
		CommentID:       c.CommentID,
		LognameOwnsThis: c.ViewerOwns,
		Owner:           c.Owner,
		OwnerShowURL:    UserShowURL(c.Owner),
		Text:            c.Text,
		URL:             CommentURL(c.CommentID),
	}
}

func NewPostDTO(p feed.PostView) PostDTO {
	comments := make([]CommentDTO, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, NewCommentDTO(c))
	}

	likes := LikesDTO{LognameLikesThis: p.ViewerLikes, NumLikes: p.NumLikes}
	if p.ViewerLikes {
		url := LikeURL(p.ViewerLikeID)
		likes.URL = &url
	}

	return PostDTO{
		Comments:     comments,
		CommentsURL:  fmt.Sprintf("%scomments/?postid=%d", APIRoot, p.PostID),
		Created:      p.Created.UTC().Format(CreatedLayout),
		ImgURL:       UploadURL(p.Image),
		Likes:        likes,
		Owner:        p.Owner,
		OwnerImgURL:  UploadURL(p.OwnerImage),
		OwnerShowURL: UserShowURL(p.Owner),
		PostShowURL:  fmt.Sprintf("/posts/%d/", p.PostID),
		PostID:       p.PostID,
		URL:          PostURL(p.PostID),
	}
}
