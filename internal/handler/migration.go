package handler

import (
	"net/http"
	"strconv"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MigrationHandler struct {
	*Handler
	migrationService service.MigrationService
}

func NewMigrationHandler(handler *Handler, migrationService service.MigrationService) *MigrationHandler {
	return &MigrationHandler{
		Handler:          handler,
		migrationService: migrationService,
	}
}

// StartMigration godoc
// @Summary 发起迁移任务
// @Schemes
// @Description 把一批客户机从源节点迁到目标节点，同集群走原生迁移，跨集群走 dump/transfer/restore 流水线
// @Tags 迁移模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body v1.StartMigrationRequest true "params"
// @Success 200 {object} v1.StartMigrationResponse
// @Router /api/v1/migrations [post]
func (h *MigrationHandler) StartMigration(ctx *gin.Context) {
	var req v1.StartMigrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	taskID, err := h.migrationService.StartMigration(ctx, GetUserIdFromCtx(ctx), &req)
	if err != nil {
		h.logger.WithContext(ctx).Error("migrationService.StartMigration error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, v1.StartMigrationResponseData{TaskID: taskID})
}

// GetTask godoc
// @Summary 迁移任务详情
// @Schemes
// @Description 含步骤列表和执行日志
// @Tags 迁移模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "任务 ID"
// @Success 200 {object} v1.GetMigrationTaskResponse
// @Router /api/v1/migrations/{id} [get]
func (h *MigrationHandler) GetTask(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	task, err := h.migrationService.GetTask(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).Error("migrationService.GetTask error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, task)
}

// ListTasks godoc
// @Summary 迁移任务列表
// @Schemes
// @Description 按创建时间倒序分页
// @Tags 迁移模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页条数"
// @Success 200 {object} v1.ListMigrationTasksResponse
// @Router /api/v1/migrations [get]
func (h *MigrationHandler) ListTasks(ctx *gin.Context) {
	var req v1.ListMigrationTasksRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	data, err := h.migrationService.ListTasks(ctx, &req)
	if err != nil {
		h.logger.WithContext(ctx).Error("migrationService.ListTasks error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, data)
}

// CancelTask godoc
// @Summary 取消迁移任务
// @Schemes
// @Description 协作式取消，正在迁移的客户机不会被打断，后续客户机不再开始
// @Tags 迁移模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "任务 ID"
// @Success 200 {object} v1.CancelMigrationTaskResponse
// @Router /api/v1/migrations/{id} [delete]
func (h *MigrationHandler) CancelTask(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.migrationService.CancelTask(ctx, id); err != nil {
		h.logger.WithContext(ctx).Error("migrationService.CancelTask error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, nil)
}
