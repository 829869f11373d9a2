// internal/handler/event_bus.go
package handler

import (
	"sync"
	"time"

	"printer-service/internal/discovery"
	"printer-service/internal/model"
)

// Event represents an internal event flowing through the bus
type Event struct {
	Type      string      `json:"type"`
	PrinterID string      `json:"printer_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventBus distributes events to subscribers
type EventBus struct {
	subscribers map[string][]chan Event
	events      chan Event
	mutex       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
		events:      make(chan Event, 1000),
	}
}

// Start starts the event distribution loop
func (eb *EventBus) Start() {
	for event := range eb.events {
		eb.distributeEvent(event)
	}
}

// Publish publishes an event to the bus
func (eb *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case eb.events <- event:
	default:
		// Bus full; drop rather than block the publisher
	}
}

// Subscribe subscribes to events of a specific type
func (eb *EventBus) Subscribe(eventType string) <-chan Event {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	ch := make(chan Event, 64)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// distributeEvent sends an event to all matching subscribers
func (eb *EventBus) distributeEvent(event Event) {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	for _, ch := range eb.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
		}
	}
	for _, ch := range eb.subscribers["*"] {
		select {
		case ch <- event:
		default:
		}
	}
}

// PrinterEventHandler bridges registry, queue and discovery events to
// the event bus and the WebSocket broadcast layer.
type PrinterEventHandler struct {
	eventBus  *EventBus
	wsHandler *WebSocketHandler
}

// NewPrinterEventHandler creates a printer event handler
func NewPrinterEventHandler(eventBus *EventBus, wsHandler *WebSocketHandler) *PrinterEventHandler {
	return &PrinterEventHandler{
		eventBus:  eventBus,
		wsHandler: wsHandler,
	}
}

// OnStatusChanged satisfies registry.StatusListener
func (h *PrinterEventHandler) OnStatusChanged(printerID string, status model.DeviceStatus) {
	data := map[string]interface{}{"status": string(status)}

	h.eventBus.Publish(Event{
		Type:      "printer_status",
		PrinterID: printerID,
		Data:      data,
	})
	if h.wsHandler != nil {
		h.wsHandler.BroadcastPrinterEvent(printerID, "status_changed", data)
	}
}

// OnScanProgress satisfies discovery.ProgressListener
func (h *PrinterEventHandler) OnScanProgress(p discovery.Progress) {
	h.eventBus.Publish(Event{
		Type: "scan_progress",
		Data: p,
	})
	if h.wsHandler != nil {
		h.wsHandler.BroadcastScanProgress(p)
	}
}

// OnJobFinished publishes a job's terminal outcome
func (h *PrinterEventHandler) OnJobFinished(job *model.PrintJob, result model.JobResult) {
	data := map[string]interface{}{
		"job_id":      result.JobID.String(),
		"success":     result.Success,
		"retry_count": result.RetryCount,
	}
	if job.OrderNumber != "" {
		data["order_number"] = job.OrderNumber
	}
	if result.Err != nil {
		data["error"] = result.Err.Error()
	}

	h.eventBus.Publish(Event{
		Type:      "job_finished",
		PrinterID: job.DeviceID,
		Data:      data,
	})
	if h.wsHandler != nil {
		h.wsHandler.BroadcastJobEvent(result.JobID, job.DeviceID, "job_finished", data)
	}
}
