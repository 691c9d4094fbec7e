package bot

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"deal-pulse/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// AlertDispatcher mirrors deal events to subscribed Telegram chats. It
// implements the same Publish contract as the websocket hub, so services fan
// out to both without knowing about Telegram.
type AlertDispatcher struct {
	sender messageSender

	mu          sync.RWMutex
	subscribers map[int64]struct{}
}

func NewAlertDispatcher(sender messageSender) *AlertDispatcher {
	return &AlertDispatcher{
		sender:      sender,
		subscribers: make(map[int64]struct{}),
	}
}

func (d *AlertDispatcher) Subscribe(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.subscribers[chatID]; exists {
		return false
	}
	d.subscribers[chatID] = struct{}{}
	return true
}

func (d *AlertDispatcher) Unsubscribe(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.subscribers[chatID]; !exists {
		return false
	}
	delete(d.subscribers, chatID)
	return true
}

func (d *AlertDispatcher) IsSubscribed(chatID int64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, exists := d.subscribers[chatID]
	return exists
}

func (d *AlertDispatcher) SubscriberCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}

// Publish broadcasts the event to every subscribed chat. The room is ignored;
// Telegram subscriptions are chat-level, not user-level.
func (d *AlertDispatcher) Publish(room string, event domain.Event) {
	if d == nil || d.sender == nil {
		return
	}

	msg := formatEvent(event)
	if msg == "" {
		return
	}

	for _, chatID := range d.snapshotSubscribers() {
		if _, err := d.sender.Send(&tele.Chat{ID: chatID}, msg); err != nil {
			log.Printf("telegram alert to chat %d: %v", chatID, err)
		}
	}
}

func (d *AlertDispatcher) snapshotSubscribers() []int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	chatIDs := make([]int64, 0, len(d.subscribers))
	for chatID := range d.subscribers {
		chatIDs = append(chatIDs, chatID)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	return chatIDs
}

func formatEvent(event domain.Event) string {
	switch payload := event.Payload.(type) {
	case domain.SentimentAlertPayload:
		return fmt.Sprintf("Sentiment alert\n%s\nScore: %.2f", payload.Message, payload.Score)
	case domain.NotificationPayload:
		return fmt.Sprintf("Automation: %s\n%s", payload.Company, payload.Message)
	case domain.DealMovedPayload:
		return fmt.Sprintf("Deal %s moved to %s (automated)", payload.DealID, payload.Stage)
	default:
		return ""
	}
}

func parseAlertMode(args []string) (string, error) {
	if len(args) == 0 {
		return "status", nil
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "on":
		return "on", nil
	case "off":
		return "off", nil
	case "status":
		return "status", nil
	default:
		return "", fmt.Errorf("invalid mode")
	}
}
