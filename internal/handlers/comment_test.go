package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/promanagex/promanagex-api/internal/models"
)

func TestCreateComment_WritesActivity(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	body, _ := json.Marshal(map[string]any{
		"issue":   issue.ID,
		"content": "Looks good to me",
	})
	c, w := testContext("POST", "/api/comments", body, owner.ID)
	env.commentHandler.CreateComment(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	env.db.Model(&models.Activity{}).
		Where("issue_id = ? AND action = ?", issue.ID, models.ActionCommented).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateComment_RequiresAccessAndContent(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	outsider := createTestUser(t, env.db, "Mallory", "mallory@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	body, _ := json.Marshal(map[string]any{
		"issue":   issue.ID,
		"content": "Drive-by",
	})
	c, w := testContext("POST", "/api/comments", body, outsider.ID)
	env.commentHandler.CreateComment(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Content is mandatory.
	body, _ = json.Marshal(map[string]any{"issue": issue.ID})
	c, w = testContext("POST", "/api/comments", body, owner.ID)
	env.commentHandler.CreateComment(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCommentsByIssue_OldestFirst(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, env.db.Create(&models.Comment{
			IssueID:   issue.ID,
			UserID:    owner.ID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	c, w := testContext("GET", "/api/comments/issue/1", nil, owner.ID)
	c.Params = gin.Params{{Key: "issueId", Value: "1"}}
	env.commentHandler.ListCommentsByIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count    int `json:"count"`
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 3, response.Count)
	assert.Equal(t, "first", response.Comments[0].Content)
	assert.Equal(t, "third", response.Comments[2].Content)
}

func TestUpdateComment_AuthorOnly(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	member := createTestUser(t, env.db, "Bob", "bob@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID, member.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	comment := models.Comment{IssueID: issue.ID, UserID: owner.ID, Content: "original"}
	require.NoError(t, env.db.Create(&comment).Error)

	body, _ := json.Marshal(map[string]any{"content": "edited"})

	// Another member cannot edit it.
	c, w := testContext("PUT", "/api/comments/1", body, member.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.commentHandler.UpdateComment(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The author can.
	c, w = testContext("PUT", "/api/comments/1", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.commentHandler.UpdateComment(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Comment
	require.NoError(t, env.db.First(&stored, comment.ID).Error)
	assert.Equal(t, "edited", stored.Content)
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	member := createTestUser(t, env.db, "Bob", "bob@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID, member.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	comment := models.Comment{IssueID: issue.ID, UserID: owner.ID, Content: "to delete"}
	require.NoError(t, env.db.Create(&comment).Error)

	c, w := testContext("DELETE", "/api/comments/1", nil, member.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.commentHandler.DeleteComment(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext("DELETE", "/api/comments/1", nil, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.commentHandler.DeleteComment(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	env.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
