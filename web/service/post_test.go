package service

import (
	"testing"

	"github.com/hanlovechurch/church-ui/database/model"

	"github.com/stretchr/testify/require"
)

func TestPostOwnership(t *testing.T) {
	var svc PostService
	author := &model.User{Id: 101, Name: "작성자", Role: model.RoleUser}
	other := &model.User{Id: 102, Name: "다른회원", Role: model.RoleUser}
	admin := &model.User{Id: 103, Name: "관리자", Role: model.RoleAdmin}

	post, err := svc.CreatePost(author, "공지", "본문입니다")
	require.NoError(t, err)

	require.ErrorIs(t, svc.UpdatePost(other, post.Id, "수정", "본문"), ErrForbidden)
	require.NoError(t, svc.UpdatePost(author, post.Id, "수정된 공지", "수정된 본문"))
	require.NoError(t, svc.UpdatePost(admin, post.Id, "관리자 수정", "본문"))

	require.ErrorIs(t, svc.DeletePost(other, post.Id), ErrForbidden)
	require.NoError(t, svc.DeletePost(admin, post.Id))

	_, err = svc.GetPost(post.Id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostRemovesComments(t *testing.T) {
	var svc PostService
	author := &model.User{Id: 111, Name: "작성자", Role: model.RoleUser}

	post, err := svc.CreatePost(author, "댓글 테스트", "본문")
	require.NoError(t, err)
	comment, err := svc.AddComment(author, post.Id, "첫 댓글")
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(author, post.Id))

	_, err = svc.getComment(post.Id, comment.Id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommentOwnership(t *testing.T) {
	var svc PostService
	author := &model.User{Id: 121, Name: "글쓴이", Role: model.RoleUser}
	commenter := &model.User{Id: 122, Name: "댓글러", Role: model.RoleUser}

	post, err := svc.CreatePost(author, "소통", "본문")
	require.NoError(t, err)
	comment, err := svc.AddComment(commenter, post.Id, "은혜 받았습니다")
	require.NoError(t, err)

	// the post's author does not own other people's comments
	require.ErrorIs(t, svc.UpdateComment(author, post.Id, comment.Id, "수정"), ErrForbidden)
	require.NoError(t, svc.UpdateComment(commenter, post.Id, comment.Id, "수정한 댓글"))

	got, err := svc.GetPost(post.Id)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	require.Equal(t, "수정한 댓글", got.Comments[0].Text)

	require.NoError(t, svc.DeleteComment(commenter, post.Id, comment.Id))
	require.ErrorIs(t, svc.DeleteComment(commenter, post.Id, comment.Id), ErrNotFound)
}

func TestAddCommentUnknownPost(t *testing.T) {
	var svc PostService
	caller := &model.User{Id: 131, Name: "유령", Role: model.RoleUser}
	_, err := svc.AddComment(caller, 99999, "어디에도 못 다는 댓글")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestContentUpsert(t *testing.T) {
	var svc ContentService

	_, err := svc.GetContent("greetings")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.UpdateContent("greetings", "환영합니다", "인사말 본문"))
	got, err := svc.GetContent("greetings")
	require.NoError(t, err)
	require.Equal(t, "환영합니다", got.Title)

	require.NoError(t, svc.UpdateContent("greetings", "새 제목", "새 본문"))
	got, err = svc.GetContent("greetings")
	require.NoError(t, err)
	require.Equal(t, "새 제목", got.Title)
	require.Equal(t, "새 본문", got.Content)
}
