// internal/handler/print_handler.go
package handler

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// waitTimeout bounds how long a synchronous print request blocks on
// the job outcome before falling back to a queued response.
const waitTimeout = 30 * time.Second

// PrintHandler handles print job HTTP requests
type PrintHandler struct {
	printService *service.PrintService
	events       *PrinterEventHandler
	logger       *utils.ServiceLogger
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printService *service.PrintService, events *PrinterEventHandler, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		printService: printService,
		events:       events,
		logger:       utils.NewServiceLogger(logger, "print-handler"),
	}
}

// PrintTextRequest represents a plain text print request
type PrintTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// PrintRawRequest carries pre-encoded printer bytes
type PrintRawRequest struct {
	Data string `json:"data" binding:"required"` // base64
}

// PrintOrder normalizes an order payload and prints it
// @Summary Print an order
// @Description Normalize a raw order payload from any known POS shape and print the receipt
// @Tags Print
// @Accept json
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Param wait query bool false "Wait for the job outcome" default(false)
// @Param request body object true "Raw order payload"
// @Success 200 {object} utils.APIResponse{data=model.PrintJob} "Job completed"
// @Success 202 {object} utils.APIResponse{data=model.PrintJob} "Job queued"
// @Failure 400 {object} utils.APIResponse "Payload could not be normalized"
// @Failure 409 {object} utils.APIResponse "Duplicate order"
// @Failure 412 {object} utils.APIResponse "Printer not connected"
// @Router /printers/{printer_id}/print [post]
func (h *PrintHandler) PrintOrder(c *gin.Context) {
	printerID := c.Param("printer_id")

	var payload model.JSONObject
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ValidationErrorResponse(c, bindingErrors(err))
		return
	}

	job, done, err := h.printService.PrintOrder(c.Request.Context(), printerID, payload)
	if err != nil {
		h.logger.Error("Failed to queue order", zap.Error(err), zap.String("printer_id", printerID))
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to queue order", err)
		return
	}

	h.respond(c, job, done)
}

// PrintReceipt prints an already canonical receipt
// @Summary Print a receipt
// @Description Print a receipt that is already in canonical form
// @Tags Print
// @Accept json
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Param wait query bool false "Wait for the job outcome" default(false)
// @Param request body model.ReceiptData true "Receipt"
// @Success 202 {object} utils.APIResponse{data=model.PrintJob} "Job queued"
// @Failure 400 {object} utils.APIResponse "Invalid receipt"
// @Router /printers/{printer_id}/print/receipt [post]
func (h *PrintHandler) PrintReceipt(c *gin.Context) {
	printerID := c.Param("printer_id")

	var receipt model.ReceiptData
	if err := c.ShouldBindJSON(&receipt); err != nil {
		utils.ValidationErrorResponse(c, bindingErrors(err))
		return
	}

	job, done, err := h.printService.PrintReceipt(c.Request.Context(), printerID, &receipt)
	if err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to queue receipt", err)
		return
	}

	h.respond(c, job, done)
}

// PrintText prints plain text
// @Summary Print text
// @Description Print a plain text snippet, used for diagnostics
// @Tags Print
// @Accept json
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Param request body PrintTextRequest true "Text to print"
// @Success 202 {object} utils.APIResponse{data=model.PrintJob} "Job queued"
// @Router /printers/{printer_id}/print/text [post]
func (h *PrintHandler) PrintText(c *gin.Context) {
	printerID := c.Param("printer_id")

	var req PrintTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, bindingErrors(err))
		return
	}

	job, done, err := h.printService.PrintText(c.Request.Context(), printerID, req.Text)
	if err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to queue text", err)
		return
	}

	h.respond(c, job, done)
}

// PrintRaw sends pre-encoded bytes straight to the printer
// @Summary Print raw bytes
// @Description Send base64-encoded printer commands without re-encoding
// @Tags Print
// @Accept json
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Param request body PrintRawRequest true "Base64 payload"
// @Success 202 {object} utils.APIResponse{data=model.PrintJob} "Job queued"
// @Failure 400 {object} utils.APIResponse "Invalid base64 payload"
// @Router /printers/{printer_id}/print/raw [post]
func (h *PrintHandler) PrintRaw(c *gin.Context) {
	printerID := c.Param("printer_id")

	var req PrintRawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, bindingErrors(err))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid base64 payload", err)
		return
	}

	job, done, err := h.printService.PrintRaw(c.Request.Context(), printerID, data)
	if err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to queue raw data", err)
		return
	}

	h.respond(c, job, done)
}

// TestPrint prints a short fixed test page
// @Summary Test print
// @Description Print a short test page on the printer
// @Tags Print
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Success 202 {object} utils.APIResponse{data=model.PrintJob} "Job queued"
// @Router /printers/{printer_id}/test [post]
func (h *PrintHandler) TestPrint(c *gin.Context) {
	printerID := c.Param("printer_id")

	job, done, err := h.printService.TestPrint(c.Request.Context(), printerID)
	if err != nil {
		utils.ErrorResponse(c, utils.ErrorStatus(err), "Failed to queue test print", err)
		return
	}

	h.respond(c, job, done)
}

// respond either waits for the job outcome (?wait=true) or answers
// 202 immediately. Either way the outcome is forwarded to the event
// layer once the queue finishes the job.
func (h *PrintHandler) respond(c *gin.Context, job *model.PrintJob, done <-chan model.JobResult) {
	if c.Query("wait") != "true" {
		go h.forwardResult(job, done)
		utils.SuccessResponse(c, http.StatusAccepted, "Print job queued", job)
		return
	}

	select {
	case result := <-done:
		if h.events != nil {
			h.events.OnJobFinished(job, result)
		}
		if !result.Success {
			utils.ErrorResponse(c, utils.ErrorStatus(result.Err), "Print job failed", result.Err)
			return
		}
		utils.SuccessResponse(c, http.StatusOK, "Print job completed", gin.H{
			"job":         job,
			"retry_count": result.RetryCount,
		})

	case <-time.After(waitTimeout):
		go h.forwardResult(job, done)
		utils.SuccessResponse(c, http.StatusAccepted, "Print job still in progress", job)

	case <-c.Request.Context().Done():
		go h.forwardResult(job, done)
	}
}

// forwardResult drains a job's completion channel in the background
// so job events reach WebSocket clients for fire-and-forget requests.
func (h *PrintHandler) forwardResult(job *model.PrintJob, done <-chan model.JobResult) {
	result, ok := <-done
	if !ok {
		return
	}
	if h.events != nil {
		h.events.OnJobFinished(job, result)
	}
	if !result.Success {
		h.logger.Warn("Print job failed",
			zap.String("job_id", result.JobID.String()),
			zap.String("printer_id", job.DeviceID),
			zap.Int("retry_count", result.RetryCount),
			zap.Error(result.Err),
		)
	}
}
