package store

import (
	"strings"

	"github.com/tgienger/planboard/internal/models"
)

func bugID(b models.Bug) int64                    { return b.ID }
func goalID(g models.Goal) int64                  { return g.ID }
func ideaID(i models.Idea) int64                  { return i.ID }
func inviteID(c models.CollaborationInvite) int64 { return c.ID }

func validateBug(b models.Bug) error {
	if strings.TrimSpace(b.Title) == "" {
		return required("bug", "title")
	}
	if strings.TrimSpace(b.Description) == "" {
		return required("bug", "description")
	}
	if !b.Status.Valid() {
		return invalid("bug", "status", b.Status)
	}
	return nil
}

// AddBug appends a bug. An empty status means Open.
func AddBug(bugs []models.Bug, id int64, title, description string, status models.BugStatus) ([]models.Bug, models.Bug, error) {
	if status == "" {
		status = models.BugOpen
	}
	b := models.Bug{ID: id, Title: strings.TrimSpace(title), Description: strings.TrimSpace(description), Status: status}
	if err := validateBug(b); err != nil {
		return bugs, models.Bug{}, err
	}
	return appendItem(bugs, b), b, nil
}

// SetBugStatus moves a bug to another status
func SetBugStatus(bugs []models.Bug, id int64, status models.BugStatus) ([]models.Bug, error) {
	if !status.Valid() {
		return bugs, invalid("bug", "status", status)
	}
	return replaceByID(bugs, id, bugID, func(b models.Bug) models.Bug {
		b.Status = status
		return b
	}), nil
}

func EditBug(bugs []models.Bug, b models.Bug) ([]models.Bug, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.Description = strings.TrimSpace(b.Description)
	if err := validateBug(b); err != nil {
		return bugs, err
	}
	return replaceByID(bugs, b.ID, bugID, func(models.Bug) models.Bug { return b }), nil
}

func RemoveBug(bugs []models.Bug, id int64) []models.Bug {
	return removeByID(bugs, id, bugID)
}

// AddGoal appends a goal with no tasks and zero progress
func AddGoal(goals []models.Goal, id int64, title, description string) ([]models.Goal, models.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return goals, models.Goal{}, required("goal", "title")
	}
	g := models.Goal{ID: id, Title: title, Description: strings.TrimSpace(description), Tasks: []models.Task{}}
	return appendItem(goals, g), g, nil
}

// SetGoalProgress records progress, clamped to 0-100
func SetGoalProgress(goals []models.Goal, id int64, progress int) []models.Goal {
	progress = min(max(progress, 0), 100)
	return replaceByID(goals, id, goalID, func(g models.Goal) models.Goal {
		g.Progress = progress
		return g
	})
}

func EditGoal(goals []models.Goal, g models.Goal) ([]models.Goal, error) {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return goals, required("goal", "title")
	}
	g.Progress = min(max(g.Progress, 0), 100)
	if g.Tasks == nil {
		g.Tasks = []models.Task{}
	}
	return replaceByID(goals, g.ID, goalID, func(models.Goal) models.Goal { return g }), nil
}

func RemoveGoal(goals []models.Goal, id int64) []models.Goal {
	return removeByID(goals, id, goalID)
}

// ParseTags splits comma separated input into trimmed tags. Empty tags
// left by stray commas are dropped.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// AddIdea appends an idea; tags come from comma separated input
func AddIdea(ideas []models.Idea, id int64, title, description, tags string) ([]models.Idea, models.Idea, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return ideas, models.Idea{}, required("idea", "title")
	}
	idea := models.Idea{ID: id, Title: title, Description: strings.TrimSpace(description), Tags: ParseTags(tags)}
	return appendItem(ideas, idea), idea, nil
}

func EditIdea(ideas []models.Idea, idea models.Idea) ([]models.Idea, error) {
	idea.Title = strings.TrimSpace(idea.Title)
	if idea.Title == "" {
		return ideas, required("idea", "title")
	}
	if idea.Tags == nil {
		idea.Tags = []string{}
	}
	return replaceByID(ideas, idea.ID, ideaID, func(models.Idea) models.Idea { return idea }), nil
}

func RemoveIdea(ideas []models.Idea, id int64) []models.Idea {
	return removeByID(ideas, id, ideaID)
}

func validateInvite(c models.CollaborationInvite) error {
	if strings.TrimSpace(c.ProjectName) == "" {
		return required("invite", "project name")
	}
	if strings.TrimSpace(c.InviteeEmail) == "" {
		return required("invite", "invitee email")
	}
	if !c.Permissions.Valid() {
		return invalid("invite", "permissions", c.Permissions)
	}
	return nil
}

// AddInvite records a collaboration invite. An empty permission means read.
func AddInvite(invites []models.CollaborationInvite, id int64, projectName, email string, perm models.Permission) ([]models.CollaborationInvite, models.CollaborationInvite, error) {
	if perm == "" {
		perm = models.PermissionRead
	}
	c := models.CollaborationInvite{
		ID:           id,
		ProjectName:  strings.TrimSpace(projectName),
		InviteeEmail: strings.TrimSpace(email),
		Permissions:  perm,
	}
	if err := validateInvite(c); err != nil {
		return invites, models.CollaborationInvite{}, err
	}
	return appendItem(invites, c), c, nil
}

func EditInvite(invites []models.CollaborationInvite, c models.CollaborationInvite) ([]models.CollaborationInvite, error) {
	c.ProjectName = strings.TrimSpace(c.ProjectName)
	c.InviteeEmail = strings.TrimSpace(c.InviteeEmail)
	if err := validateInvite(c); err != nil {
		return invites, err
	}
	return replaceByID(invites, c.ID, inviteID, func(models.CollaborationInvite) models.CollaborationInvite { return c }), nil
}

func RemoveInvite(invites []models.CollaborationInvite, id int64) []models.CollaborationInvite {
	return removeByID(invites, id, inviteID)
}
