// internal/handler/discovery_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// DiscoveryHandler handles printer discovery requests
type DiscoveryHandler struct {
	discoveryService *service.DiscoveryService
	logger           *utils.ServiceLogger
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoveryService *service.DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		logger:           utils.NewServiceLogger(logger, "discovery-handler"),
	}
}

// StartScan starts a discovery scan
// @Summary Start a discovery scan
// @Description Start scanning for printers. Progress and results arrive over the events WebSocket; discovered printers are registered as they are found.
// @Tags Discovery
// @Produce json
// @Param type query string false "Scanner type" Enums(network, bluetooth, mdns, serial)
// @Success 202 {object} utils.APIResponse "Scan started"
// @Failure 409 {object} utils.APIResponse "Scan already in progress"
// @Router /discovery/scan [post]
func (h *DiscoveryHandler) StartScan(c *gin.Context) {
	scannerType := c.Query("type")

	var err error
	if scannerType == "" {
		err = h.discoveryService.StartScan(c.Request.Context())
	} else {
		err = h.discoveryService.StartScanByType(c.Request.Context(), scannerType)
	}
	if err != nil {
		h.logger.Warn("Failed to start scan", zap.Error(err), zap.String("type", scannerType))
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to start scan", err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Scan started", gin.H{
		"type": scannerType,
	})
}

// CancelScan cancels the running scan
// @Summary Cancel the running scan
// @Description Abort the scan in flight. Printers already discovered stay registered.
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse "Scan cancelled"
// @Router /discovery/scan [delete]
func (h *DiscoveryHandler) CancelScan(c *gin.Context) {
	h.discoveryService.CancelScan()
	utils.SuccessResponse(c, http.StatusOK, "Scan cancelled", nil)
}

// GetStatus reports discovery status
// @Summary Discovery status
// @Description Report whether a scan is running and which scanner types are available
// @Tags Discovery
// @Produce json
// @Success 200 {object} utils.APIResponse "Status retrieved"
// @Router /discovery/status [get]
func (h *DiscoveryHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Discovery status retrieved", h.discoveryService.Status())
}
