package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-dev/taskdeck/internal/store"
	"github.com/taskdeck-dev/taskdeck/internal/utils"
)

type MemberHandler struct {
	members *store.MemberStore
}

func NewMemberHandler(members *store.MemberStore) *MemberHandler {
	return &MemberHandler{members: members}
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

func (h *MemberHandler) List(ctx *gin.Context) {
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

	members, err := h.members.List(projectID, userID)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func (h *MemberHandler) Add(ctx *gin.Context) {
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

	var req AddMemberRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	member, err := h.members.Add(projectID, userID, req.UserID, req.Role)

	if err != nil {
		respondStoreError(ctx, err)
		return
	}

	BroadcastProjectEvent(projectID, "member.added")

	ctx.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) Remove(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := utils.GetMemberID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.members.Remove(projectID, userID, memberID); err != nil {
		respondStoreError(ctx, err)
		return
	}

	BroadcastProjectEvent(projectID, "member.removed")

	ctx.Status(http.StatusNoContent)
}
