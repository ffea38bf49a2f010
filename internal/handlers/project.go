package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/store"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
)

type ProjectHandler struct {
	projects *store.ProjectStore
}

func NewProjectHandler(projects *store.ProjectStore) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Deadline    *time.Time `json:"deadline"`
	Priority    string     `json:"priority"`
	Image       string     `json:"image"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	Deadline    *time.Time `json:"deadline"`
	Priority    *string    `json:"priority"`
	Image       *string    `json:"image"`
}

func (h *ProjectHandler) Create(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := h.projects.Create(userID, store.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Image:       req.Image,
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projects, err := h.projects.List(userID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, err := h.projects.Get(projectID, userID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	project, err := h.projects.Update(projectID, userID, store.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Image:       req.Image,
	})

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	BroadcastProjectEvent(projectID, "project.updated")

	ctx.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.projects.Delete(projectID, userID); err != nil {
		respondStoreError(ctx, err)
		return
	}

	BroadcastProjectEvent(projectID, "project.deleted")

	ctx.Status(http.StatusNoContent)
}
