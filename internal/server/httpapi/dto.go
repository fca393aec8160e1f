package httpapi

import (
	"math"
	"time"

	"github.com/snaplist/snaplist/internal/server/models"
	"github.com/snaplist/snaplist/internal/server/repositories/tasks"
)

// dateLayout is the wire format for due dates.
const dateLayout = "2006-01-02"

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	// ExpiresIn is the absolute expiry instant in epoch milliseconds.
	ExpiresIn int64  `json:"expiresIn"`
	Username  string `json:"username"`
}

// taskRequest is the shared body for create and update. Status, priority,
// and due date are optional; on update a nil field keeps the stored value.
type taskRequest struct {
	Text     string  `json:"text" binding:"required,max=300"`
	Status   *string `json:"status" binding:"omitempty,oneof=PENDING DONE"`
	Priority *string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate  *string `json:"dueDate"`
}

type taskResponse struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Status    string  `json:"status"`
	Priority  string  `json:"priority"`
	DueDate   *string `json:"dueDate,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type pageResponse struct {
	Content       []taskResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

func toTaskResponse(t *models.Task) taskResponse {
	resp := taskResponse{
		ID:        t.ID,
		Text:      t.Text,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(dateLayout)
		resp.DueDate = &d
	}
	return resp
}

func toPageResponse(p *tasks.PagedTasks, page tasks.Page) pageResponse {
	content := make([]taskResponse, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		content = append(content, toTaskResponse(t))
	}

	totalPages := 0
	if page.Size > 0 {
		totalPages = int(math.Ceil(float64(p.TotalElements) / float64(page.Size)))
	}

	return pageResponse{
		Content:       content,
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: p.TotalElements,
		TotalPages:    totalPages,
	}
}
