package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/snaplist/snaplist/internal/common"
	"github.com/snaplist/snaplist/internal/server/models"
	"github.com/snaplist/snaplist/internal/server/repositories/tasks"
	"github.com/snaplist/snaplist/internal/server/services"
)

// currentUser resolves the authenticated identity to a user record. A
// token whose user no longer exists is a broken session and reads as a
// missing resource.
func (s *Server) currentUser(c *gin.Context) (*models.User, bool) {
	identity, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid authorization header"})
		return nil, false
	}

	user, err := s.users.GetCurrentUser(c.Request.Context(), identity.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondNotFound(c, "User", identity.Username)
		} else {
			s.respondServiceError(c, err, "User", identity.Username)
		}
		return nil, false
	}
	return user, true
}

func (s *Server) createTask(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	input, ok := s.taskInput(c, req)
	if !ok {
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		s.respondServiceError(c, err, "Task", "")
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (s *Server) listTasks(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	page, ok := s.parsePage(c)
	if !ok {
		return
	}

	filter, ok := s.parseListFilter(c)
	if !ok {
		return
	}

	result, err := s.tasks.List(c.Request.Context(), user.ID, filter, page)
	if err != nil {
		s.respondServiceError(c, err, "Task", "")
		return
	}

	c.JSON(http.StatusOK, toPageResponse(result, normalizePage(page)))
}

func (s *Server) listDueToday(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	page, ok := s.parsePage(c)
	if !ok {
		return
	}

	result, err := s.tasks.ListDueToday(c.Request.Context(), user.ID, page)
	if err != nil {
		s.respondServiceError(c, err, "Task", "")
		return
	}

	c.JSON(http.StatusOK, toPageResponse(result, normalizePage(page)))
}

func (s *Server) listOverdue(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	page, ok := s.parsePage(c)
	if !ok {
		return
	}

	result, err := s.tasks.ListOverdue(c.Request.Context(), user.ID, page)
	if err != nil {
		s.respondServiceError(c, err, "Task", "")
		return
	}

	c.JSON(http.StatusOK, toPageResponse(result, normalizePage(page)))
}

func (s *Server) getTask(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		s.respondServiceError(c, err, "Task", id)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) updateTask(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	input, ok := s.taskInput(c, req)
	if !ok {
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), user.ID, id, input)
	if err != nil {
		s.respondServiceError(c, err, "Task", id)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

func (s *Server) deleteTask(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := s.tasks.Delete(c.Request.Context(), user.ID, id); err != nil {
		s.respondServiceError(c, err, "Task", id)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) completeTask(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		return
	}

	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := s.tasks.MarkCompleted(c.Request.Context(), user.ID, id)
	if err != nil {
		s.respondServiceError(c, err, "Task", id)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// --- request parsing helpers ---

func parseTaskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondFieldError(c, "id", "must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) parsePage(c *gin.Context) (tasks.Page, bool) {
	page := tasks.Page{Number: 0, Size: services.DefaultPageSize}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondFieldError(c, "page", "must be a non-negative integer")
			return tasks.Page{}, false
		}
		page.Number = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondFieldError(c, "size", "must be a positive integer")
			return tasks.Page{}, false
		}
		page.Size = n
	}
	return page, true
}

func (s *Server) parseListFilter(c *gin.Context) (services.ListFilter, bool) {
	var filter services.ListFilter

	if v := c.Query("status"); v != "" {
		status, ok := models.ParseStatus(v)
		if !ok {
			respondFieldError(c, "status", "must be one of [PENDING DONE]")
			return filter, false
		}
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority, ok := models.ParsePriority(v)
		if !ok {
			respondFieldError(c, "priority", "must be one of [LOW MEDIUM HIGH]")
			return filter, false
		}
		filter.Priority = &priority
	}
	if v := c.Query("dueBefore"); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			respondFieldError(c, "dueBefore", "must be a date in YYYY-MM-DD format")
			return filter, false
		}
		filter.DueBefore = &d
	}
	if v := c.Query("dueAfter"); v != "" {
		d, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			respondFieldError(c, "dueAfter", "must be a date in YYYY-MM-DD format")
			return filter, false
		}
		filter.DueAfter = &d
	}
	filter.Q = c.Query("q")

	return filter, true
}

// taskInput converts the wire body to a service input. Text must contain
// something other than whitespace; the due date, when present, must be
// today or later.
func (s *Server) taskInput(c *gin.Context, req taskRequest) (services.TaskInput, bool) {
	input := services.TaskInput{Text: req.Text}

	if strings.TrimSpace(req.Text) == "" {
		respondFieldError(c, "text", "Task text cannot be empty")
		return input, false
	}

	if req.Status != nil {
		status, ok := models.ParseStatus(*req.Status)
		if !ok {
			respondFieldError(c, "status", "must be one of [PENDING DONE]")
			return input, false
		}
		input.Status = &status
	}
	if req.Priority != nil {
		priority, ok := models.ParsePriority(*req.Priority)
		if !ok {
			respondFieldError(c, "priority", "must be one of [LOW MEDIUM HIGH]")
			return input, false
		}
		input.Priority = &priority
	}
	if req.DueDate != nil {
		d, err := time.ParseInLocation(dateLayout, *req.DueDate, time.UTC)
		if err != nil {
			respondFieldError(c, "dueDate", "must be a date in YYYY-MM-DD format")
			return input, false
		}
		y, m, day := s.nowFunc().UTC().Date()
		today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		if d.Before(today) {
			respondFieldError(c, "dueDate", "Due date cannot be in the past")
			return input, false
		}
		input.DueDate = &d
	}

	return input, true
}

func normalizePage(p tasks.Page) tasks.Page {
	if p.Size <= 0 {
		p.Size = services.DefaultPageSize
	}
	if p.Number < 0 {
		p.Number = 0
	}
	return p
}
