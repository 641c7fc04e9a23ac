package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(command string) string

type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

type updatesResponse struct {
	OK          bool             `json:"ok"`
	Description string           `json:"description"`
	Result      []telegramUpdate `json:"result"`
}

const (
	pollTimeout     = 30 * time.Second
	pollRetryDelay  = 5 * time.Second
	pollClientSlack = 5 * time.Second
)

// StartPolling long-polls getUpdates and answers commands from the configured
// chat. Messages from any other chat are dropped so reports stay private.
// Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	client := &http.Client{Timeout: pollTimeout + pollClientSlack, Transport: t.Client.Transport}
	retry := t.RetryDelay
	if retry <= 0 {
		retry = pollRetryDelay
	}

	offset := 0
	for ctx.Err() == nil {
		updates, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] telegram polling: %v", err)
			if !wait(ctx, retry) {
				break
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			t.dispatch(ctx, u, handler)
		}
	}
	log.Println("[INFO] Telegram polling stopped")
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int) ([]telegramUpdate, error) {
	apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=%d",
		t.APIBase, t.BotToken, offset, int(pollTimeout.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode getUpdates (status %d): %w", resp.StatusCode, err)
	}
	if !result.OK {
		return nil, fmt.Errorf("getUpdates rejected: status %d, %s", resp.StatusCode, result.Description)
	}
	return result.Result, nil
}

func (t *TelegramNotifier) dispatch(ctx context.Context, u telegramUpdate, handler CommandHandler) {
	if u.Message == nil {
		return
	}
	text := strings.TrimSpace(u.Message.Text)
	if text == "" {
		return
	}
	if chat := strconv.FormatInt(u.Message.Chat.ID, 10); chat != t.ChatID {
		log.Printf("[WARN] ignoring command from chat %s", chat)
		return
	}

	log.Printf("[INFO] received command: %s", text)
	if reply := handler(text); reply != "" {
		if err := t.Send(ctx, reply); err != nil {
			log.Printf("[ERROR] send reply: %v", err)
		}
	}
}

// wait sleeps for d, returning false if ctx ends first.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
