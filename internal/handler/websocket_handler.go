// internal/handler/websocket_handler.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"printer-service/internal/discovery"
	"printer-service/internal/registry"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// WebSocketHandler manages WebSocket connections for real-time communication
type WebSocketHandler struct {
	upgrader     websocket.Upgrader
	connections  *ConnectionManager
	registry     *registry.Registry
	printService *service.PrintService
	logger       *utils.ServiceLogger
	eventBus     *EventBus
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	reg *registry.Registry,
	printService *service.PrintService,
	eventBus *EventBus,
	logger *zap.Logger,
) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// In production, implement proper origin checking
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:     upgrader,
		connections:  NewConnectionManager(),
		registry:     reg,
		printService: printService,
		logger:       utils.NewServiceLogger(logger, "websocket-handler"),
		eventBus:     eventBus,
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Printer-specific WebSocket connections
	router.GET("/printers/:printer_id", h.HandlePrinterConnection)

	// General printer events WebSocket
	router.GET("/events", h.HandleEventConnection)

	// Job status WebSocket
	router.GET("/jobs", h.HandleJobConnection)
}

// HandlePrinterConnection handles printer-specific WebSocket connections
func (h *WebSocketHandler) HandlePrinterConnection(c *gin.Context) {
	printerID := c.Param("printer_id")
	if printerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "printer_id is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Type:        "printer",
		PrinterID:   &printerID,
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Printer WebSocket client connected",
		zap.String("client_id", client.ID),
		zap.String("printer_id", printerID),
		zap.String("remote_addr", client.RemoteAddr),
	)

	// Send initial printer status
	go h.sendInitialPrinterStatus(client, printerID)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// HandleEventConnection handles general event WebSocket connections
func (h *WebSocketHandler) HandleEventConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Type:        "events",
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Event WebSocket client connected",
		zap.String("client_id", client.ID),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// HandleJobConnection handles job status WebSocket connections
func (h *WebSocketHandler) HandleJobConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          uuid.New().String(),
		Connection:  conn,
		Send:        make(chan []byte, 256),
		Type:        "jobs",
		UserAgent:   c.Request.UserAgent(),
		RemoteAddr:  c.Request.RemoteAddr,
		ConnectedAt: time.Now(),
	}

	h.connections.Register(client)
	h.logger.Info("Job WebSocket client connected",
		zap.String("client_id", client.ID),
	)

	go h.handleClientRead(client)
	go h.handleClientWrite(client)
}

// handleClientRead handles reading messages from WebSocket client
func (h *WebSocketHandler) handleClientRead(client *Client) {
	defer func() {
		h.connections.Unregister(client)
		client.Connection.Close()
	}()

	client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Connection.SetPongHandler(func(string) error {
		client.Connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, messageBytes, err := client.Connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("WebSocket read error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
			}
			break
		}

		var message WebSocketMessage
		if err := json.Unmarshal(messageBytes, &message); err != nil {
			h.logger.Error("Failed to parse WebSocket message",
				zap.Error(err),
				zap.String("client_id", client.ID),
			)
			continue
		}

		h.handleClientMessage(client, &message)
	}
}

// handleClientWrite handles writing messages to WebSocket client
func (h *WebSocketHandler) handleClientWrite(client *Client) {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		client.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Connection.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Error("WebSocket write error",
					zap.Error(err),
					zap.String("client_id", client.ID),
				)
				return
			}

		case <-ticker.C:
			client.Connection.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleClientMessage handles incoming client messages
func (h *WebSocketHandler) handleClientMessage(client *Client, message *WebSocketMessage) {
	switch message.Type {
	case "subscribe":
		h.handleSubscription(client, message)
	case "unsubscribe":
		h.handleUnsubscription(client, message)
	case "printer_command":
		h.handlePrinterCommand(client, message)
	case "ping":
		h.sendMessage(client, &WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
		})
	default:
		h.logger.Warn("Unknown message type",
			zap.String("type", message.Type),
			zap.String("client_id", client.ID),
		)
	}
}

// handleSubscription handles client subscription requests
func (h *WebSocketHandler) handleSubscription(client *Client, message *WebSocketMessage) {
	if client.Subscriptions == nil {
		client.Subscriptions = make(map[string]bool)
	}

	if data, ok := message.Data.(map[string]interface{}); ok {
		if topic, ok := data["topic"].(string); ok {
			client.Subscriptions[topic] = true
			h.logger.Info("Client subscribed to topic",
				zap.String("client_id", client.ID),
				zap.String("topic", topic),
			)

			h.sendMessage(client, &WebSocketMessage{
				Type: "subscription_confirmed",
				Data: map[string]interface{}{
					"topic": topic,
				},
				Timestamp: time.Now(),
			})
		}
	}
}

// handleUnsubscription handles client unsubscription requests
func (h *WebSocketHandler) handleUnsubscription(client *Client, message *WebSocketMessage) {
	if client.Subscriptions == nil {
		return
	}

	if data, ok := message.Data.(map[string]interface{}); ok {
		if topic, ok := data["topic"].(string); ok {
			delete(client.Subscriptions, topic)
			h.logger.Info("Client unsubscribed from topic",
				zap.String("client_id", client.ID),
				zap.String("topic", topic),
			)
		}
	}
}

// handlePrinterCommand handles printer command messages
func (h *WebSocketHandler) handlePrinterCommand(client *Client, message *WebSocketMessage) {
	if client.PrinterID == nil {
		h.sendError(client, "printer_command only available on printer connections")
		return
	}

	data, ok := message.Data.(map[string]interface{})
	if !ok {
		h.sendError(client, "invalid command data")
		return
	}

	command, ok := data["command"].(string)
	if !ok {
		h.sendError(client, "command is required")
		return
	}

	go h.executePrinterCommand(client, *client.PrinterID, command)
}

// executePrinterCommand executes a printer command
func (h *WebSocketHandler) executePrinterCommand(client *Client, printerID, command string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	var result interface{}

	switch command {
	case "connect":
		err = h.registry.Connect(ctx, printerID)
		result = map[string]interface{}{"connected": err == nil}

	case "disconnect":
		err = h.registry.Disconnect(printerID)
		result = map[string]interface{}{"disconnected": err == nil}

	case "test":
		var job interface{}
		job, _, err = h.printService.TestPrint(ctx, printerID)
		result = job

	case "status":
		result, err = h.registry.Get(printerID)

	default:
		h.sendError(client, fmt.Sprintf("unknown command: %s", command))
		return
	}

	response := &WebSocketMessage{
		Type: "command_response",
		Data: map[string]interface{}{
			"command": command,
			"success": err == nil,
			"result":  result,
		},
		Timestamp: time.Now(),
	}

	if err != nil {
		response.Data.(map[string]interface{})["error"] = err.Error()
	}

	h.sendMessage(client, response)
}

// sendInitialPrinterStatus sends initial printer status to client
func (h *WebSocketHandler) sendInitialPrinterStatus(client *Client, printerID string) {
	device, err := h.registry.Get(printerID)
	if err != nil {
		h.sendError(client, fmt.Sprintf("failed to get printer: %v", err))
		return
	}

	message := &WebSocketMessage{
		Type: "initial_status",
		Data: map[string]interface{}{
			"printer": device,
		},
		Timestamp: time.Now(),
	}

	h.sendMessage(client, message)
}

// sendMessage sends a message to a client
func (h *WebSocketHandler) sendMessage(client *Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal WebSocket message", zap.Error(err))
		return
	}

	select {
	case client.Send <- messageBytes:
	default:
		h.logger.Warn("Client send channel full, dropping message",
			zap.String("client_id", client.ID),
		)
	}
}

// sendError sends an error message to a client
func (h *WebSocketHandler) sendError(client *Client, errorMsg string) {
	message := &WebSocketMessage{
		Type: "error",
		Data: map[string]interface{}{
			"error": errorMsg,
		},
		Timestamp: time.Now(),
	}
	h.sendMessage(client, message)
}

// BroadcastPrinterEvent broadcasts printer events to relevant clients
func (h *WebSocketHandler) BroadcastPrinterEvent(printerID string, eventType string, data interface{}) {
	message := &WebSocketMessage{
		Type: "printer_event",
		Data: map[string]interface{}{
			"printer_id": printerID,
			"event_type": eventType,
			"data":       data,
		},
		Timestamp: time.Now(),
	}

	h.broadcastToPrinterClients(printerID, message)
	h.broadcastToEventClients(message)
}

// BroadcastJobEvent broadcasts job events to relevant clients
func (h *WebSocketHandler) BroadcastJobEvent(jobID uuid.UUID, printerID string, eventType string, data interface{}) {
	message := &WebSocketMessage{
		Type: "job_event",
		Data: map[string]interface{}{
			"job_id":     jobID.String(),
			"printer_id": printerID,
			"event_type": eventType,
			"data":       data,
		},
		Timestamp: time.Now(),
	}

	h.broadcastToJobClients(message)
	h.broadcastToPrinterClients(printerID, message)
}

// BroadcastScanProgress broadcasts discovery scan progress to event clients
func (h *WebSocketHandler) BroadcastScanProgress(p discovery.Progress) {
	message := &WebSocketMessage{
		Type:      "scan_progress",
		Data:      p,
		Timestamp: time.Now(),
	}

	h.broadcastToEventClients(message)
}

// broadcastToPrinterClients broadcasts to clients connected to a specific printer
func (h *WebSocketHandler) broadcastToPrinterClients(printerID string, message *WebSocketMessage) {
	clients := h.connections.GetPrinterClients(printerID)
	h.broadcastToClients(clients, message)
}

// broadcastToEventClients broadcasts to all event clients
func (h *WebSocketHandler) broadcastToEventClients(message *WebSocketMessage) {
	clients := h.connections.GetEventClients()
	h.broadcastToClients(clients, message)
}

// broadcastToJobClients broadcasts to all job clients
func (h *WebSocketHandler) broadcastToJobClients(message *WebSocketMessage) {
	clients := h.connections.GetJobClients()
	h.broadcastToClients(clients, message)
}

// broadcastToClients broadcasts message to specified clients
func (h *WebSocketHandler) broadcastToClients(clients []*Client, message *WebSocketMessage) {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Failed to marshal broadcast message", zap.Error(err))
		return
	}

	for _, client := range clients {
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("Client send channel full during broadcast",
				zap.String("client_id", client.ID),
			)
		}
	}
}

// GetConnectionStats returns connection statistics
func (h *WebSocketHandler) GetConnectionStats() *ConnectionStats {
	return h.connections.GetStats()
}
