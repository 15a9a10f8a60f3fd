package dto

import (
	"time"

	"github.com/projectboard/project-management-api/internal/models"
)

// ProjectResponse is the public view of a project.
type ProjectResponse struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	OwnerID     uint64               `json:"owner_id"`
	Owner       *UserResponse        `json:"owner,omitempty"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   time.Time            `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Members     []TeamMemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TeamMemberResponse is one row of a project's team.
type TeamMemberResponse struct {
	UserID  uint64        `json:"user_id"`
	User    *UserResponse `json:"user,omitempty"`
	AddedAt time.Time     `json:"added_at"`
}

// ToProjectResponse converts a Project model to a ProjectResponse
func ToProjectResponse(project *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Status:      project.Status,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserResponse(&project.Owner)
		resp.Owner = &owner
	}

	for i := range project.Members {
		resp.Members = append(resp.Members, ToTeamMemberResponse(&project.Members[i]))
	}

	return resp
}

// ToProjectResponses converts a slice of Project models
func ToProjectResponses(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}

// ToTeamMemberResponse converts a ProjectMember model
func ToTeamMemberResponse(member *models.ProjectMember) TeamMemberResponse {
	resp := TeamMemberResponse{
		UserID:  member.UserID,
		AddedAt: member.AddedAt,
	}
	if member.User.ID != 0 {
		user := ToUserResponse(&member.User)
		resp.User = &user
	}
	return resp
}

// ToTeamMemberResponses converts a slice of ProjectMember models
func ToTeamMemberResponses(members []models.ProjectMember) []TeamMemberResponse {
	responses := make([]TeamMemberResponse, len(members))
	for i := range members {
		responses[i] = ToTeamMemberResponse(&members[i])
	}
	return responses
}
