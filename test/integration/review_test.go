package integration_test

import (
	"net/http"
	"testing"

	"coursemate_backend/internal/models"
	"coursemate_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedEntry struct {
	models.Review
	CommentNum     int    `json:"commentNum"`
	UserName       string `json:"userName"`
	UserProfilePic string `json:"userProfilePic"`
}

func createReview(t *testing.T, ts *helpers.TestServer, userID, course, instructor string) string {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", map[string]interface{}{
		"userId":     userID,
		"body":       "Solid course on " + course,
		"stars":      4,
		"course":     course,
		"instructor": instructor,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	reviews := latestReviews(t, ts)
	for _, r := range reviews {
		if r.Course == course && r.Instructor == instructor {
			return r.ID
		}
	}
	t.Fatalf("Отзыв %q не найден в ленте", course)
	return ""
}

func latestReviews(t *testing.T, ts *helpers.TestServer) []feedEntry {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/reviews", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var feed []feedEntry
	helpers.DecodeJSON(t, body, &feed)
	return feed
}

func TestReview_FeedWithAuthorsAndComments(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	ts.Store.PutUser(models.User{ID: "u1", Username: "ann", ProfilePic: "https://img/ann.png"})

	reviewID := createReview(t, ts, "u1", "Linear Algebra", "Strang")
	_ = createReview(t, ts, "ghost", "Databases", "Widom")

	for _, body := range []string{"Agreed", "Too fast for me"} {
		res, out := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/comments", map[string]string{
			"userId": "u1", "reviewId": reviewID, "body": body,
		})
		require.Equal(t, http.StatusOK, res.StatusCode, out)
	}

	feed := latestReviews(t, ts)
	require.Len(t, feed, 2)
	for _, entry := range feed {
		switch entry.ID {
		case reviewID:
			assert.Equal(t, 2, entry.CommentNum)
			assert.Equal(t, "ann", entry.UserName)
			assert.Equal(t, "https://img/ann.png", entry.UserProfilePic)
			assert.Equal(t, []string{"linear", "algebra", "strang"}, entry.Keywords)
		default:
			assert.Zero(t, entry.CommentNum)
			assert.Empty(t, entry.UserName, "автор без профиля отдается пустым")
		}
	}

	// автор лежит плоскими полями записи, без вложенного объекта
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/reviews", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var raw []map[string]interface{}
	helpers.DecodeJSON(t, body, &raw)
	for _, entry := range raw {
		assert.Contains(t, entry, "userName")
		assert.Contains(t, entry, "userProfilePic")
		assert.NotContains(t, entry, "author")
	}
}

func TestReview_ToggleLikeAndShare(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	reviewID := createReview(t, ts, "u1", "Compilers", "Aho")

	like := map[string]string{"userId": "u2", "reviewId": reviewID}
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/like", like)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"liked":true`)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/like", like)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"liked":false`)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/share", map[string]string{"reviewId": reviewID})
	require.Equal(t, http.StatusOK, res.StatusCode)

	feed := latestReviews(t, ts)
	require.Len(t, feed, 1)
	assert.Empty(t, feed[0].Likes)
	assert.Equal(t, 1, feed[0].Shares)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/like", map[string]string{"userId": "u2", "reviewId": "missing"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "REVIEW_NOT_FOUND")
}

func TestReview_Comments(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	ts.Store.PutUser(models.User{ID: "u2", Username: "bob"})
	reviewID := createReview(t, ts, "u1", "Networks", "Kurose")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/comments", map[string]string{
		"userId": "u2", "reviewId": "missing", "body": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "REVIEW_NOT_FOUND")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/comments", map[string]string{
		"userId": "u2", "reviewId": reviewID, "body": "Great notes",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/reviews/comments?reviewId="+reviewID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var comments []struct {
		ID    string   `json:"id"`
		Body  string   `json:"body"`
		Likes []string `json:"likes"`
		UserName string `json:"userName"`
	}
	helpers.DecodeJSON(t, body, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "Great notes", comments[0].Body)
	assert.Equal(t, "bob", comments[0].UserName)

	var rawComments []map[string]interface{}
	helpers.DecodeJSON(t, body, &rawComments)
	assert.Equal(t, "bob", rawComments[0]["userName"])
	assert.Contains(t, rawComments[0], "userProfilePic")
	assert.NotContains(t, rawComments[0], "user")

	likeReq := map[string]string{"reviewId": reviewID, "userId": "u1", "commentId": comments[0].ID}
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/comments/like", likeReq)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `"liked":true`)

	likeReq["commentId"] = "missing"
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews/comments/like", likeReq)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "COMMENT_NOT_FOUND")
}

func TestReview_Search(t *testing.T) {
	t.Parallel()
	ts := newServer(t)
	osID := createReview(t, ts, "u1", "Operating Systems", "Tanenbaum")
	mlID := createReview(t, ts, "u1", "Machine Learning", "Ng")

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/reviews/search?query=NG%20tanenbaum", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var found []models.Review
	helpers.DecodeJSON(t, body, &found)
	require.Len(t, found, 2)
	assert.Equal(t, mlID, found[0].ID)
	assert.Equal(t, osID, found[1].ID)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/reviews/search?query=", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `[]`, body)
}

func TestFeedback_Submit(t *testing.T) {
	t.Parallel()
	ts := newServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/feedback", map[string]interface{}{
		"stars": 5, "feedback": "Love the schedule reminders", "userId": "u1",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	stored := ts.Store.Feedbacks()
	require.Len(t, stored, 1)
	assert.Equal(t, 5, stored[0].Stars)
	assert.Equal(t, "u1", stored[0].UserID)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/feedback", map[string]interface{}{"stars": 9, "userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
