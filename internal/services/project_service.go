package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aokumura/issue-tracker-api/internal/models"
	"github.com/aokumura/issue-tracker-api/internal/policy"
	"github.com/aokumura/issue-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrInvalidMemberRole  = errors.New("invalid member role")
)

// ProjectService provides business logic for projects and memberships.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// CreateProject creates a project and auto-enrolls the creator as an
// admin member in the same transaction.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	member := &models.ProjectMember{
		Role:     models.RoleAdmin,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithOwnerMembership(project, member); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListProjectsForUser returns the memberships of a user, projects included.
func (s *ProjectService) ListProjectsForUser(userID uint64) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListByMember(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// GetProjectWithMembers returns a project and its roster. Only members may
// see the roster.
func (s *ProjectService) GetProjectWithMembers(projectID, userID uint64) (*models.Project, []models.ProjectMember, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	role, err := s.resolveRole(projectID, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.CanListMembers(role).Err(); err != nil {
		return nil, nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project members: %w", err)
	}

	return project, members, nil
}

// AddMemberInput represents parameters to enroll a user in a project.
type AddMemberInput struct {
	ProjectID uint64
	ActorID   uint64
	UserID    uint64
	Role      models.MemberRole
}

// AddMember enrolls a user in a project. Admin-only; duplicate enrollment
// is a conflict, never a silent upsert.
func (s *ProjectService) AddMember(input AddMemberInput) (*models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	actingRole, err := s.resolveRole(input.ProjectID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanAddMember(actingRole).Err(); err != nil {
		return nil, err
	}

	if !policy.ValidMemberRole(input.Role) {
		return nil, ErrInvalidMemberRole
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.projectRepo.FindMember(input.ProjectID, input.UserID); err == nil {
		return nil, policy.Conflict("user is already a member of this project").Err()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Role:      input.Role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// ListMembers returns the roster of a project for a member caller.
func (s *ProjectService) ListMembers(projectID, userID uint64) ([]models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	role, err := s.resolveRole(projectID, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanListMembers(role).Err(); err != nil {
		return nil, err
	}

	return s.projectRepo.ListMembers(projectID)
}

// GetOwnRole returns the caller's role in a project. A non-member gets a
// NotFound decision, not Forbidden, since the caller asks about themselves.
func (s *ProjectService) GetOwnRole(projectID, userID uint64) (models.MemberRole, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.RoleNone, ErrProjectNotFound
		}
		return policy.RoleNone, fmt.Errorf("failed to find project: %w", err)
	}

	role, err := s.resolveRole(projectID, userID)
	if err != nil {
		return policy.RoleNone, err
	}
	if err := policy.OwnRole(role).Err(); err != nil {
		return policy.RoleNone, err
	}

	return role, nil
}

// resolveRole looks up the caller's membership and maps it to a role.
// Absence of a membership row is RoleNone, not an error.
func (s *ProjectService) resolveRole(projectID, userID uint64) (models.MemberRole, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return policy.RoleNone, nil
		}
		return policy.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return policy.ResolveRole(member), nil
}
