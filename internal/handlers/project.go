package handlers

import (
	"net/http"
	"strconv"

	"github.com/aokumura/issue-tracker-api/internal/dto"
	apierrors "github.com/aokumura/issue-tracker-api/internal/errors"
	"github.com/aokumura/issue-tracker-api/internal/middleware"
	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller. The caller is
// enrolled as an admin member automatically.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects the caller is a member of, with the
// caller's role in each.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.projectService.ListProjectsForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type projectWithRole struct {
		dto.ProjectDTO
		Role models.MemberRole `json:"role"`
	}

	projects := make([]projectWithRole, len(memberships))
	for i, m := range memberships {
		projects[i] = projectWithRole{
			ProjectDTO: dto.ToProjectDTO(m.Project),
			Role:       m.Role,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
	})
}

// GetProject returns a project with its member list.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, members, err := h.projectService.GetProjectWithMembers(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	projectDTO := dto.ToProjectDTO(*project)
	projectDTO.Members = make([]dto.ProjectMemberDTO, len(members))
	for i, member := range members {
		projectDTO.Members[i] = dto.ToProjectMemberDTO(member)
	}

	c.JSON(http.StatusOK, projectDTO)
}

// AddMember enrolls a user in the project with a role. Admin only.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddMemberRequest struct {
		UserID uint64            `json:"user_id" binding:"required"`
		Role   models.MemberRole `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(services.AddMemberInput{
		ProjectID: projectID,
		ActorID:   userID,
		UserID:    req.UserID,
		Role:      req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// ListMembers returns the project's member list.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.projectService.ListMembers(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToProjectMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

// GetOwnRole returns the caller's role in the project. Non-members get a
// 404, not an empty role.
func (h *ProjectHandler) GetOwnRole(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.projectService.GetOwnRole(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": projectID,
		"role":       role,
	})
}

// parseIDParam reads a numeric URL parameter, responding with a 400 on
// malformed input.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
