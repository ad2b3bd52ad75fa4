package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/promanagex/promanagex-api/internal/constants"
	"github.com/promanagex/promanagex-api/internal/database"
	"github.com/promanagex/promanagex-api/internal/models"
	"github.com/promanagex/promanagex-api/internal/repository"
	"github.com/promanagex/promanagex-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db               *gorm.DB
	authHandler      *AuthHandler
	projectHandler   *ProjectHandler
	issueHandler     *IssueHandler
	commentHandler   *CommentHandler
	analyticsHandler *AnalyticsHandler
	authService      *services.AuthService
	projectService   *services.ProjectService
	issueService     *services.IssueService
	commentService   *services.CommentService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Issue{},
		&models.Comment{},
		&models.Activity{},
	)
	require.NoError(t, err)

	// Repositories read the connection back through the same seam main()
	// uses, so the swap-in is covered too.
	database.SetDB(db)
	conn := database.GetDB()

	userRepo := repository.NewUserRepository(conn)
	projectRepo := repository.NewProjectRepository(conn)
	issueRepo := repository.NewIssueRepository(conn)
	commentRepo := repository.NewCommentRepository(conn)
	activityRepo := repository.NewActivityRepository(conn)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	issueService := services.NewIssueService(issueRepo, projectRepo, activityRepo)
	commentService := services.NewCommentService(commentRepo, issueRepo, projectRepo, activityRepo)
	analyticsService := services.NewAnalyticsService(issueRepo, projectRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:               db,
		authHandler:      NewAuthHandler(authService),
		projectHandler:   NewProjectHandler(projectService),
		issueHandler:     NewIssueHandler(issueService),
		commentHandler:   NewCommentHandler(commentService),
		analyticsHandler: NewAnalyticsHandler(analyticsService),
		authService:      authService,
		projectService:   projectService,
		issueService:     issueService,
		commentService:   commentService,
	}
}

// testContext builds an authenticated gin test context the way the session
// middleware would leave it.
func testContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createTestUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestProject inserts a project with the owner's implicit admin
// member row, mirroring what CreateProject produces.
func createTestProject(t *testing.T, db *gorm.DB, name string, ownerID uint64, memberIDs ...uint64) *models.Project {
	t.Helper()
	members := []models.ProjectMember{
		{UserID: ownerID, Role: models.RoleAdmin, JoinedAt: time.Now()},
	}
	for _, id := range memberIDs {
		members = append(members, models.ProjectMember{
			UserID:   id,
			Role:     models.RoleMember,
			JoinedAt: time.Now(),
		})
	}
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
		Status:  models.ProjectStatusActive,
		Members: members,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTestIssue(t *testing.T, db *gorm.DB, projectID, reporterID uint64, status models.IssueStatus, position int) *models.Issue {
	t.Helper()
	issue := &models.Issue{
		Title:      "Test Issue",
		ProjectID:  projectID,
		Status:     status,
		Priority:   models.PriorityMedium,
		ReporterID: reporterID,
		Position:   position,
	}
	require.NoError(t, db.Create(issue).Error)
	return issue
}
