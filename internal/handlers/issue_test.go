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

type issueResponse struct {
	Success bool `json:"success"`
	Issue   struct {
		ID         uint64     `json:"id"`
		Title      string     `json:"title"`
		Status     string     `json:"status"`
		Priority   string     `json:"priority"`
		Position   int        `json:"position"`
		FinishDate *time.Time `json:"finishDate"`
	} `json:"issue"`
}

func TestCreateIssue_BoardPositionAppends(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)

	create := func(title string) issueResponse {
		body, _ := json.Marshal(map[string]any{
			"title":   title,
			"project": project.ID,
		})
		c, w := testContext("POST", "/api/issues", body, owner.ID)
		env.issueHandler.CreateIssue(c)
		require.Equal(t, http.StatusCreated, w.Code)

		var response issueResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response
	}

	first := create("First")
	second := create("Second")

	assert.Equal(t, "To-Do", first.Issue.Status)
	assert.Equal(t, "Medium", first.Issue.Priority)
	assert.Equal(t, 0, first.Issue.Position)
	assert.Equal(t, 1, second.Issue.Position)

	// Creation writes a single "created" activity per issue.
	var count int64
	env.db.Model(&models.Activity{}).
		Where("issue_id = ? AND action = ?", first.Issue.ID, models.ActionCreated).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateIssue_RequiresMembership(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	outsider := createTestUser(t, env.db, "Mallory", "mallory@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)

	body, _ := json.Marshal(map[string]any{
		"title":   "Sneaky",
		"project": project.ID,
	})
	c, w := testContext("POST", "/api/issues", body, outsider.ID)
	env.issueHandler.CreateIssue(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateIssue_FinishDateLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	update := func(payload map[string]any) issueResponse {
		body, _ := json.Marshal(payload)
		c, w := testContext("PUT", "/api/issues/1", body, owner.ID)
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		env.issueHandler.UpdateIssue(c)
		require.Equal(t, http.StatusOK, w.Code)

		var response issueResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response
	}

	// Moving between non-Done columns leaves finishDate empty.
	response := update(map[string]any{"status": "In-Progress"})
	assert.Nil(t, response.Issue.FinishDate)

	// Transition into Done stamps a finish date.
	response = update(map[string]any{"status": "Done"})
	require.NotNil(t, response.Issue.FinishDate)
	stamped := *response.Issue.FinishDate

	// Updating other fields while Done keeps the stamp.
	response = update(map[string]any{"title": "Renamed"})
	require.NotNil(t, response.Issue.FinishDate)
	assert.WithinDuration(t, stamped, *response.Issue.FinishDate, time.Second)

	// Moving out of Done clears it.
	response = update(map[string]any{"status": "Review"})
	assert.Nil(t, response.Issue.FinishDate)
}

func TestUpdateIssue_ExplicitFinishDateHonored(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	finished := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(map[string]any{
		"status":     "Done",
		"finishDate": finished.Format(time.RFC3339),
	})
	c, w := testContext("PUT", "/api/issues/1", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response issueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Issue.FinishDate)
	assert.True(t, finished.Equal(*response.Issue.FinishDate))
}

func TestUpdateIssue_ActivitiesPerChangedField(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	member := createTestUser(t, env.db, "Bob", "bob@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID, member.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	body, _ := json.Marshal(map[string]any{
		"status":   "In-Progress",
		"priority": "High",
		"assignee": member.ID,
	})
	c, w := testContext("PUT", "/api/issues/1", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	countAction := func(action models.ActivityAction) int64 {
		var count int64
		env.db.Model(&models.Activity{}).
			Where("issue_id = ? AND action = ?", issue.ID, action).
			Count(&count)
		return count
	}
	assert.Equal(t, int64(1), countAction(models.ActionStatusChanged))
	assert.Equal(t, int64(1), countAction(models.ActionPriorityChanged))
	assert.Equal(t, int64(1), countAction(models.ActionAssigneeChanged))

	// Re-sending the same values writes nothing new.
	c, w = testContext("PUT", "/api/issues/1", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(1), countAction(models.ActionStatusChanged))
	assert.Equal(t, int64(1), countAction(models.ActionPriorityChanged))
	assert.Equal(t, int64(1), countAction(models.ActionAssigneeChanged))
}

func TestUpdateIssue_OmittedAssigneeUnchanged(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	member := createTestUser(t, env.db, "Bob", "bob@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID, member.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)
	require.NoError(t, env.db.Model(issue).Update("assignee_id", member.ID).Error)

	// Body without the assignee key leaves the assignment alone.
	body, _ := json.Marshal(map[string]any{"title": "Renamed"})
	c, w := testContext("PUT", "/api/issues/1", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Issue
	require.NoError(t, env.db.First(&stored, issue.ID).Error)
	require.NotNil(t, stored.AssigneeID)
	assert.Equal(t, member.ID, *stored.AssigneeID)

	// An explicit null clears it.
	c, w = testContext("PUT", "/api/issues/1", []byte(`{"assignee": null}`), owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, env.db.First(&stored, issue.ID).Error)
	assert.Nil(t, stored.AssigneeID)
}

func TestUpdateIssueStatus_Board(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	position := 3
	body, _ := json.Marshal(map[string]any{"status": "Done", "position": position})
	c, w := testContext("PATCH", "/api/issues/1/status", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssueStatus(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response issueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Done", response.Issue.Status)
	assert.Equal(t, position, response.Issue.Position)
	assert.NotNil(t, response.Issue.FinishDate)

	var count int64
	env.db.Model(&models.Activity{}).
		Where("issue_id = ? AND action = ?", issue.ID, models.ActionStatusChanged).
		Count(&count)
	assert.Equal(t, int64(1), count)

	// Same status again records nothing.
	c, w = testContext("PATCH", "/api/issues/1/status", body, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.UpdateIssueStatus(c)
	require.Equal(t, http.StatusOK, w.Code)

	env.db.Model(&models.Activity{}).
		Where("issue_id = ? AND action = ?", issue.ID, models.ActionStatusChanged).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteIssue_LeavesCommentsAndActivities(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	require.NoError(t, env.db.Create(&models.Comment{
		IssueID: issue.ID,
		UserID:  owner.ID,
		Content: "Looks good",
	}).Error)
	require.NoError(t, env.db.Create(&models.Activity{
		IssueID:     issue.ID,
		UserID:      owner.ID,
		Action:      models.ActionCreated,
		Description: "Issue created",
	}).Error)

	c, w := testContext("DELETE", "/api/issues/1", nil, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.DeleteIssue(c)
	require.Equal(t, http.StatusOK, w.Code)

	var issueCount, commentCount, activityCount int64
	env.db.Model(&models.Issue{}).Where("id = ?", issue.ID).Count(&issueCount)
	env.db.Model(&models.Comment{}).Where("issue_id = ?", issue.ID).Count(&commentCount)
	env.db.Model(&models.Activity{}).Where("issue_id = ?", issue.ID).Count(&activityCount)
	assert.Equal(t, int64(0), issueCount)
	assert.Equal(t, int64(1), commentCount)
	assert.Equal(t, int64(1), activityCount)
}

func TestListIssueActivities_NewestFirst(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	issue := createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)

	base := time.Now().Add(-time.Hour)
	for i, desc := range []string{"Issue created", "Status changed", "Priority changed"} {
		require.NoError(t, env.db.Create(&models.Activity{
			IssueID:     issue.ID,
			UserID:      owner.ID,
			Action:      models.ActionUpdated,
			Description: desc,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	c, w := testContext("GET", "/api/issues/1/activities", nil, owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	env.issueHandler.ListIssueActivities(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count      int `json:"count"`
		Activities []struct {
			Description string `json:"description"`
		} `json:"activities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 3, response.Count)
	assert.Equal(t, "Priority changed", response.Activities[0].Description)
	assert.Equal(t, "Issue created", response.Activities[2].Description)
}

func TestListIssuesByProject_OrderedByPosition(t *testing.T) {
	env := setupTestEnv(t)
	owner := createTestUser(t, env.db, "Alice", "alice@example.com")
	project := createTestProject(t, env.db, "Apollo", owner.ID)
	createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 2)
	createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 0)
	createTestIssue(t, env.db, project.ID, owner.ID, models.IssueStatusTodo, 1)

	c, w := testContext("GET", "/api/issues/project/1", nil, owner.ID)
	c.Params = gin.Params{{Key: "projectId", Value: "1"}}
	env.issueHandler.ListIssuesByProject(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count  int `json:"count"`
		Issues []struct {
			Position int `json:"position"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 3, response.Count)
	assert.Equal(t, 0, response.Issues[0].Position)
	assert.Equal(t, 1, response.Issues[1].Position)
	assert.Equal(t, 2, response.Issues[2].Position)
}
