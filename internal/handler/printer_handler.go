// internal/handler/printer_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/registry"
	"printer-service/internal/repository"
	"printer-service/internal/utils"
)

// PrinterHandler handles printer management HTTP requests
type PrinterHandler struct {
	registry *registry.Registry
	store    repository.PrinterStore
	history  repository.JobHistoryStore
	logger   *utils.ServiceLogger
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(
	reg *registry.Registry,
	store repository.PrinterStore,
	history repository.JobHistoryStore,
	logger *zap.Logger,
) *PrinterHandler {
	return &PrinterHandler{
		registry: reg,
		store:    store,
		history:  history,
		logger:   utils.NewServiceLogger(logger, "printer-handler"),
	}
}

// RegisterPrinterRequest represents a manual printer registration
type RegisterPrinterRequest struct {
	ID             string `json:"id"`
	Address        string `json:"address" binding:"required"`
	Port           int    `json:"port"`
	Name           string `json:"name"`
	Transport      string `json:"transport"`
	Protocol       string `json:"protocol"`
	PaperWidth     int    `json:"paper_width"`
	SupportsQR     *bool  `json:"supports_qr,omitempty"`
	SupportsImage  *bool  `json:"supports_image,omitempty"`
	SupportsCutter *bool  `json:"supports_cutter,omitempty"`
}

// AutoReconnectRequest toggles reconnect-on-startup
type AutoReconnectRequest struct {
	Enabled bool `json:"enabled"`
}

// bindingErrors flattens a request binding failure into the
// field-keyed map the validation error envelope carries.
func bindingErrors(err error) map[string]string {
	return map[string]string{"body": err.Error()}
}

// RegisterPrinter registers a printer manually
// @Summary Register a printer
// @Description Register a printer by address without running discovery
// @Tags Printers
// @Accept json
// @Produce json
// @Param request body RegisterPrinterRequest true "Printer registration request"
// @Success 201 {object} utils.APIResponse{data=model.PrinterDevice} "Printer registered successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /printers [post]
func (h *PrinterHandler) RegisterPrinter(c *gin.Context) {
	var req RegisterPrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, bindingErrors(err))
		return
	}

	device := req.toDevice()
	if err := h.registry.Register(c.Request.Context(), device); err != nil {
		h.logger.Error("Failed to register printer", zap.Error(err))
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to register printer", err)
		return
	}

	h.logger.Info("Printer registered", zap.String("printer_id", device.ID))
	utils.SuccessResponse(c, http.StatusCreated, "Printer registered successfully", device)
}

// ListPrinters lists all known printers
// @Summary List printers
// @Description Get all printers known to the registry with their status
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{printers=[]model.PrinterDevice,count=int}} "Printers retrieved"
// @Router /printers [get]
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers := h.registry.List()

	utils.SuccessResponse(c, http.StatusOK, "Printers retrieved successfully", gin.H{
		"printers": printers,
		"count":    len(printers),
	})
}

// GetPrinter retrieves a printer by ID
// @Summary Get printer details
// @Description Get printer details and current status by printer ID
// @Tags Printers
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse{data=model.PrinterDevice} "Printer retrieved"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{printer_id} [get]
func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	printerID := c.Param("printer_id")

	device, err := h.registry.Get(printerID)
	if err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Printer not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer retrieved successfully", device)
}

// RemovePrinter forgets a printer
// @Summary Remove printer
// @Description Remove a printer from the registry and persistent store
// @Tags Printers
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse "Printer removed"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{printer_id} [delete]
func (h *PrinterHandler) RemovePrinter(c *gin.Context) {
	printerID := c.Param("printer_id")

	if err := h.registry.Remove(c.Request.Context(), printerID); err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to remove printer", err)
		return
	}

	h.logger.Info("Printer removed", zap.String("printer_id", printerID))
	utils.SuccessResponse(c, http.StatusOK, "Printer removed successfully", gin.H{"printer_id": printerID})
}

// ConnectPrinter establishes a connection to a printer
// @Summary Connect to printer
// @Description Run the connection state machine for a printer
// @Tags Printers
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse "Printer connected"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 502 {object} utils.APIResponse "Connection failed"
// @Router /printers/{printer_id}/connect [post]
func (h *PrinterHandler) ConnectPrinter(c *gin.Context) {
	printerID := c.Param("printer_id")

	if err := h.registry.Connect(c.Request.Context(), printerID); err != nil {
		h.logger.Error("Failed to connect printer", zap.Error(err), zap.String("printer_id", printerID))
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to connect printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer connected successfully", gin.H{"printer_id": printerID})
}

// DisconnectPrinter marks a printer offline
// @Summary Disconnect printer
// @Description Disconnect from a printer
// @Tags Printers
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Success 200 {object} utils.APIResponse "Printer disconnected"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{printer_id}/disconnect [post]
func (h *PrinterHandler) DisconnectPrinter(c *gin.Context) {
	printerID := c.Param("printer_id")

	if err := h.registry.Disconnect(printerID); err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to disconnect printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer disconnected successfully", gin.H{"printer_id": printerID})
}

// GetPrintHistory lists recent job outcomes for a printer
// @Summary Get print history
// @Description Get recent print job outcomes for a printer
// @Tags Printers
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {object} utils.APIResponse{data=object{jobs=[]model.PrintJob}} "History retrieved"
// @Router /printers/{printer_id}/history [get]
func (h *PrinterHandler) GetPrintHistory(c *gin.Context) {
	printerID := c.Param("printer_id")

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	jobs, err := h.history.ListByPrinter(c.Request.Context(), printerID, limit)
	if err != nil {
		h.logger.Error("Failed to list print history", zap.Error(err), zap.String("printer_id", printerID))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list print history", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "History retrieved successfully", gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// SetAutoReconnect toggles reconnect-on-startup behavior
// @Summary Set auto-reconnect
// @Description Enable or disable automatic reconnect to the last printer on startup
// @Tags Printers
// @Accept json
// @Produce json
// @Param request body AutoReconnectRequest true "Auto-reconnect setting"
// @Success 200 {object} utils.APIResponse "Setting updated"
// @Router /printers/auto-reconnect [put]
func (h *PrinterHandler) SetAutoReconnect(c *gin.Context) {
	var req AutoReconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, bindingErrors(err))
		return
	}

	if err := h.store.SetAutoReconnect(c.Request.Context(), req.Enabled); err != nil {
		h.logger.Error("Failed to update auto-reconnect", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to update auto-reconnect", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Auto-reconnect updated", gin.H{"enabled": req.Enabled})
}

// toDevice builds a registry device from the registration request,
// filling sensible defaults for fields the caller omitted.
func (r *RegisterPrinterRequest) toDevice() *model.PrinterDevice {
	device := &model.PrinterDevice{
		ID:         r.ID,
		Address:    r.Address,
		Port:       r.Port,
		Name:       r.Name,
		Transport:  model.TransportKind(r.Transport),
		Protocol:   model.CommandProtocol(r.Protocol),
		PaperWidth: r.PaperWidth,

		SupportsQR:     true,
		SupportsImage:  true,
		SupportsCutter: true,
	}

	if device.ID == "" {
		device.ID = "net-" + r.Address
	}
	if device.Name == "" {
		device.Name = r.Address
	}
	if device.Transport == "" {
		device.Transport = model.TransportNetwork
	}
	if device.Port == 0 && device.Transport == model.TransportNetwork {
		device.Port = 9100
	}
	if r.SupportsQR != nil {
		device.SupportsQR = *r.SupportsQR
	}
	if r.SupportsImage != nil {
		device.SupportsImage = *r.SupportsImage
	}
	if r.SupportsCutter != nil {
		device.SupportsCutter = *r.SupportsCutter
	}
	return device
}
