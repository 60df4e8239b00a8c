package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aokumura/issue-tracker-api/internal/constants"
	"github.com/aokumura/issue-tracker-api/internal/database"
	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/repository"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TicketHandlerTestSuite defines the test suite for TicketHandler
type TicketHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TicketHandler
}

// SetupTest runs before each test
func (suite *TicketHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Ticket{},
		&models.Comment{},
		&models.Attachment{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	ticketRepo := repository.NewTicketRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.handler = NewTicketHandler(services.NewTicketService(ticketRepo, projectRepo))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TicketHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TicketHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TicketHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}
	suite.db.Create(project)
	suite.addTestMember(project.ID, ownerID, models.RoleAdmin)
	return project
}

func (suite *TicketHandlerTestSuite) addTestMember(projectID, userID uint64, role models.MemberRole) *models.ProjectMember {
	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	suite.db.Create(member)
	return member
}

func (suite *TicketHandlerTestSuite) createTestTicket(projectID uint64, title string, status models.TicketStatus, assignedTo *uint64) *models.Ticket {
	ticket := &models.Ticket{
		Title:      title,
		Type:       models.TypeTask,
		Status:     status,
		Priority:   models.PriorityMedium,
		ProjectID:  projectID,
		AssignedTo: assignedTo,
	}
	suite.db.Create(ticket)
	return ticket
}

// Helper function to create authenticated context
func (suite *TicketHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *TicketHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

// TestCreateTicket_Developer_Success tests ticket creation by a developer
func (suite *TicketHandlerTestSuite) TestCreateTicket_Developer_Success() {
	owner := suite.createTestUser("owner@example.com")
	dev := suite.createTestUser("dev@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, dev.ID, models.RoleDeveloper)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "New Bug",
		"type":  "bug",
	})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tickets", body, dev.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "New Bug", response["title"])
	assert.Equal(suite.T(), "todo", response["status"])
	assert.Equal(suite.T(), "medium", response["priority"])
}

// TestCreateTicket_Viewer_Forbidden tests that viewers cannot create tickets
func (suite *TicketHandlerTestSuite) TestCreateTicket_Viewer_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	viewer := suite.createTestUser("viewer@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, viewer.ID, models.RoleViewer)

	body, _ := json.Marshal(map[string]interface{}{"title": "New Bug"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tickets", body, viewer.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCreateTicket_NonMember_Forbidden tests that non-members cannot create tickets
func (suite *TicketHandlerTestSuite) TestCreateTicket_NonMember_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Test Project", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"title": "New Bug"})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tickets", body, outsider.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCreateTicket_AssigneeNotMember tests assignee membership validation
func (suite *TicketHandlerTestSuite) TestCreateTicket_AssigneeNotMember() {
	owner := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Test Project", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "New Bug",
		"assigned_to": outsider.ID,
	})
	c, w := suite.createAuthContext("POST", "/api/projects/1/tickets", body, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.CreateTicket(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestListTickets_ExcludesArchived tests that archived tickets never appear
func (suite *TicketHandlerTestSuite) TestListTickets_ExcludesArchived() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.createTestTicket(project.ID, "Visible", models.StatusTodo, nil)
	archived := suite.createTestTicket(project.ID, "Archived", models.StatusTodo, nil)
	suite.Require().NoError(suite.db.Delete(archived).Error)

	c, w := suite.createAuthContext("GET", "/api/projects/1/tickets", nil, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.ListTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	tickets := response["tickets"].([]interface{})
	assert.Len(suite.T(), tickets, 1)
	first := tickets[0].(map[string]interface{})
	assert.Equal(suite.T(), "Visible", first["title"])
}

// TestUpdateTicket_AssignedDeveloperTransition tests a developer moving
// their own ticket forward in the workflow
func (suite *TicketHandlerTestSuite) TestUpdateTicket_AssignedDeveloperTransition() {
	owner := suite.createTestUser("owner@example.com")
	dev := suite.createTestUser("dev@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, dev.ID, models.RoleDeveloper)
	ticket := suite.createTestTicket(project.ID, "Assigned", models.StatusTodo, &dev.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "in_progress"})
	c, w := suite.createAuthContext("PATCH", "/api/tickets/1", body, dev.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "in_progress", response["status"])
}

// TestUpdateTicket_SkipTransition tests that skipping a workflow step is
// rejected even for an admin
func (suite *TicketHandlerTestSuite) TestUpdateTicket_SkipTransition() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	ticket := suite.createTestTicket(project.ID, "Skipping", models.StatusTodo, nil)

	body, _ := json.Marshal(map[string]interface{}{"status": "done"})
	c, w := suite.createAuthContext("PATCH", "/api/tickets/1", body, owner.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "INVALID_TRANSITION", response["code"])

	details := response["details"].(map[string]interface{})
	assert.Equal(suite.T(), "todo", details["current"])
	assert.Equal(suite.T(), "done", details["requested"])
}

// TestUpdateTicket_ReopenDone tests the done to in_progress reopen path
func (suite *TicketHandlerTestSuite) TestUpdateTicket_ReopenDone() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	ticket := suite.createTestTicket(project.ID, "Reopen", models.StatusDone, nil)

	body, _ := json.Marshal(map[string]interface{}{"status": "in_progress"})
	c, w := suite.createAuthContext("PATCH", "/api/tickets/1", body, owner.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestUpdateTicket_DeveloperNotAssignee_Forbidden tests that developers
// cannot edit tickets assigned to someone else
func (suite *TicketHandlerTestSuite) TestUpdateTicket_DeveloperNotAssignee_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	dev := suite.createTestUser("dev@example.com")
	other := suite.createTestUser("other@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, dev.ID, models.RoleDeveloper)
	suite.addTestMember(project.ID, other.ID, models.RoleDeveloper)
	ticket := suite.createTestTicket(project.ID, "Someone else's", models.StatusTodo, &other.ID)

	body, _ := json.Marshal(map[string]interface{}{"status": "in_progress"})
	c, w := suite.createAuthContext("PATCH", "/api/tickets/1", body, dev.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestUpdateTicket_DeveloperReassign_Forbidden tests that developers
// cannot reassign tickets
func (suite *TicketHandlerTestSuite) TestUpdateTicket_DeveloperReassign_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	dev := suite.createTestUser("dev@example.com")
	other := suite.createTestUser("other@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, dev.ID, models.RoleDeveloper)
	suite.addTestMember(project.ID, other.ID, models.RoleDeveloper)
	ticket := suite.createTestTicket(project.ID, "Mine", models.StatusTodo, &dev.ID)

	body, _ := json.Marshal(map[string]interface{}{"assigned_to": other.ID})
	c, w := suite.createAuthContext("PATCH", "/api/tickets/1", body, dev.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestUpdateTicket_AdminReassign_Success tests admin reassignment
func (suite *TicketHandlerTestSuite) TestUpdateTicket_AdminReassign_Success() {
	owner := suite.createTestUser("owner@example.com")
	dev := suite.createTestUser("dev@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, dev.ID, models.RoleDeveloper)
	ticket := suite.createTestTicket(project.ID, "Unassigned", models.StatusTodo, nil)

	body, _ := json.Marshal(map[string]interface{}{"assigned_to": dev.ID})
	c, w := suite.createAuthContext("PATCH", "/api/tickets/1", body, owner.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.UpdateTicket(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), float64(dev.ID), response["assigned_to"])
}

// TestArchiveTicket_AdminIdempotent tests that archiving twice succeeds
// and leaves the ticket invisible
func (suite *TicketHandlerTestSuite) TestArchiveTicket_AdminIdempotent() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	ticket := suite.createTestTicket(project.ID, "Ephemeral", models.StatusTodo, nil)

	c, w := suite.createAuthContext("DELETE", "/api/tickets/1", nil, owner.ID)
	suite.setIDParam(c, ticket.ID)
	suite.handler.ArchiveTicket(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Second archive is a no-op success
	c, w = suite.createAuthContext("DELETE", "/api/tickets/1", nil, owner.ID)
	suite.setIDParam(c, ticket.ID)
	suite.handler.ArchiveTicket(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// The ticket is gone from the read path
	c, w = suite.createAuthContext("GET", "/api/tickets/1", nil, owner.ID)
	suite.setIDParam(c, ticket.ID)
	suite.handler.GetTicket(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestArchiveTicket_Developer_Forbidden tests that only admins archive
func (suite *TicketHandlerTestSuite) TestArchiveTicket_Developer_Forbidden() {
	owner := suite.createTestUser("owner@example.com")
	dev := suite.createTestUser("dev@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.addTestMember(project.ID, dev.ID, models.RoleDeveloper)
	ticket := suite.createTestTicket(project.ID, "Protected", models.StatusTodo, &dev.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tickets/1", nil, dev.ID)
	suite.setIDParam(c, ticket.ID)

	suite.handler.ArchiveTicket(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestSearchTickets_ScopedToMemberships tests that search only covers the
// caller's projects
func (suite *TicketHandlerTestSuite) TestSearchTickets_ScopedToMemberships() {
	owner := suite.createTestUser("owner@example.com")
	stranger := suite.createTestUser("stranger@example.com")
	mine := suite.createTestProject("Mine", owner.ID)
	other := suite.createTestProject("Other", stranger.ID)
	suite.createTestTicket(mine.ID, "Login bug", models.StatusTodo, nil)
	suite.createTestTicket(other.ID, "Login bug elsewhere", models.StatusTodo, nil)

	c, w := suite.createAuthContext("GET", "/api/tickets/search", nil, owner.ID)
	c.Request.URL.RawQuery = "q=Login"

	suite.handler.SearchTickets(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	tickets := response["tickets"].([]interface{})
	assert.Len(suite.T(), tickets, 1)
	first := tickets[0].(map[string]interface{})
	assert.Equal(suite.T(), "Login bug", first["title"])
}

// TestKanbanBoard_GroupsByStatus tests the board columns
func (suite *TicketHandlerTestSuite) TestKanbanBoard_GroupsByStatus() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.createTestTicket(project.ID, "One", models.StatusTodo, nil)
	suite.createTestTicket(project.ID, "Two", models.StatusInProgress, nil)
	suite.createTestTicket(project.ID, "Three", models.StatusDone, nil)

	c, w := suite.createAuthContext("GET", "/api/projects/1/board", nil, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.KanbanBoard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	columns := response["columns"].([]interface{})
	suite.Require().Len(columns, 3)

	first := columns[0].(map[string]interface{})
	assert.Equal(suite.T(), "todo", first["status"])
	assert.Len(suite.T(), first["tickets"].([]interface{}), 1)
}

// TestDashboard_CountsAllStatuses tests zero-filled per-status counts
func (suite *TicketHandlerTestSuite) TestDashboard_CountsAllStatuses() {
	owner := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Test Project", owner.ID)
	suite.createTestTicket(project.ID, "One", models.StatusTodo, nil)
	suite.createTestTicket(project.ID, "Two", models.StatusTodo, nil)

	c, w := suite.createAuthContext("GET", "/api/projects/1/dashboard", nil, owner.ID)
	suite.setIDParam(c, project.ID)

	suite.handler.Dashboard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	counts := response["counts"].(map[string]interface{})
	assert.Equal(suite.T(), float64(2), counts["todo"])
	assert.Equal(suite.T(), float64(0), counts["in_progress"])
	assert.Equal(suite.T(), float64(0), counts["done"])
	assert.Equal(suite.T(), float64(2), response["total"])
}

// TestTicketHandlerTestSuite runs the test suite
func TestTicketHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TicketHandlerTestSuite))
}
