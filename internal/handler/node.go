package handler

import (
	"net/http"
	"strconv"

	v1 "pvefleet/api/v1"
	"pvefleet/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NodeHandler struct {
	*Handler
	nodeService service.NodeService
}

func NewNodeHandler(handler *Handler, nodeService service.NodeService) *NodeHandler {
	return &NodeHandler{
		Handler:     handler,
		nodeService: nodeService,
	}
}

// CreateNode godoc
// @Summary 注册节点
// @Schemes
// @Description 纳管一个 PVE 节点，注册后会立即尝试一次资产同步
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body v1.CreateNodeRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/nodes [post]
func (h *NodeHandler) CreateNode(ctx *gin.Context) {
	var req v1.CreateNodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	id, err := h.nodeService.CreateNode(ctx, GetUserIdFromCtx(ctx), &req)
	if err != nil {
		h.logger.WithContext(ctx).Error("nodeService.CreateNode error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, map[string]int64{"id": id})
}

// UpdateNode godoc
// @Summary 更新节点
// @Schemes
// @Description
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "节点 ID"
// @Param request body v1.UpdateNodeRequest true "params"
// @Success 200 {object} v1.Response
// @Router /api/v1/nodes/{id} [put]
func (h *NodeHandler) UpdateNode(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	var req v1.UpdateNodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.nodeService.UpdateNode(ctx, GetUserIdFromCtx(ctx), id, &req); err != nil {
		h.logger.WithContext(ctx).Error("nodeService.UpdateNode error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// DeleteNode godoc
// @Summary 删除节点
// @Schemes
// @Description
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "节点 ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/nodes/{id} [delete]
func (h *NodeHandler) DeleteNode(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.nodeService.DeleteNode(ctx, id); err != nil {
		h.logger.WithContext(ctx).Error("nodeService.DeleteNode error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// GetNode godoc
// @Summary 节点详情
// @Schemes
// @Description
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "节点 ID"
// @Success 200 {object} v1.GetNodeResponse
// @Router /api/v1/nodes/{id} [get]
func (h *NodeHandler) GetNode(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	node, err := h.nodeService.GetNode(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).Error("nodeService.GetNode error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, node)
}

// ListNodes godoc
// @Summary 节点列表
// @Schemes
// @Description
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} v1.ListNodesResponse
// @Router /api/v1/nodes [get]
func (h *NodeHandler) ListNodes(ctx *gin.Context) {
	nodes, err := h.nodeService.ListNodes(ctx)
	if err != nil {
		h.logger.WithContext(ctx).Error("nodeService.ListNodes error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, nodes)
}

// TestNode godoc
// @Summary 节点连通性测试
// @Schemes
// @Description 测试 SSH 通道和 PVE API 的可达性
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "节点 ID"
// @Success 200 {object} v1.TestNodeResponse
// @Router /api/v1/nodes/{id}/test [post]
func (h *NodeHandler) TestNode(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	result, err := h.nodeService.TestNode(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).Error("nodeService.TestNode error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, result)
}

// SyncNode godoc
// @Summary 手动触发节点资产同步
// @Schemes
// @Description
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "节点 ID"
// @Success 200 {object} v1.Response
// @Router /api/v1/nodes/{id}/sync [post]
func (h *NodeHandler) SyncNode(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	if err := h.nodeService.RefreshGuestInventory(ctx, id); err != nil {
		h.logger.WithContext(ctx).Error("nodeService.RefreshGuestInventory error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, nil)
}

// ListGuests godoc
// @Summary 客户机列表
// @Schemes
// @Description 列出已同步的 VM 和容器，可按节点过滤
// @Tags 节点模块
// @Accept json
// @Produce json
// @Security Bearer
// @Param node_id query int false "节点 ID"
// @Success 200 {object} v1.ListGuestsResponse
// @Router /api/v1/guests [get]
func (h *NodeHandler) ListGuests(ctx *gin.Context) {
	var req v1.ListGuestsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return
	}

	guests, err := h.nodeService.ListGuests(ctx, &req)
	if err != nil {
		h.logger.WithContext(ctx).Error("nodeService.ListGuests error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, err, nil)
		return
	}
	v1.HandleSuccess(ctx, guests)
}
