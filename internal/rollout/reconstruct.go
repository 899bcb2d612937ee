package rollout

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentcore/sessioncore/internal/models"
)

// Mode selects how a Session's initial history is built.
type Mode string

const (
	// ModeNew starts a brand new conversation: no prior rollout file.
	ModeNew Mode = "new"
	// ModeResumed continues an existing rollout file in place.
	ModeResumed Mode = "resumed"
	// ModeForked replays an existing rollout file's items into a new one.
	ModeForked Mode = "forked"
)

// Reconstruction is the outcome of building initial history for a Mode.
type Reconstruction struct {
	// History is the ordered ConversationItems the session should start
	// with in memory.
	History []models.ConversationItem

	// ReplayItems are the raw rollout Items that should be persisted into
	// a newly created file (only populated for ModeForked).
	ReplayItems []Item
}

// BuildNew seeds history with user_instructions + environment context as
// the first two ResponseItems of a brand new conversation.
func BuildNew(userInstructions, environmentContext string) Reconstruction {
	var history []models.ConversationItem
	if userInstructions != "" {
		history = append(history, models.ConversationItem{
			Type:    models.ItemTypeUserMessage,
			Content: userInstructions,
		})
	}
	if environmentContext != "" {
		history = append(history, models.ConversationItem{
			Type:    models.ItemTypeUserMessage,
			Content: environmentContext,
		})
	}
	return Reconstruction{History: history}
}

// BuildResumed replays the Items recorded in an existing rollout file in
// order: a ResponseItem is appended to history, and a Compacted item
// replaces history with initialContext + the user messages seen so far +
// the compaction summary.
func BuildResumed(items []Item, initialContext []models.ConversationItem) Reconstruction {
	history := append([]models.ConversationItem(nil), initialContext...)

	for _, item := range items {
		switch item.Kind {
		case KindResponseItem:
			if item.ResponseItem != nil {
				history = append(history, *item.ResponseItem)
			}
		case KindCompacted:
			if item.Compacted != nil {
				userMessages := collectUserMessages(history[len(initialContext):])
				history = append(append([]models.ConversationItem(nil), initialContext...), userMessages...)
				history = append(history, models.ConversationItem{
					Type:    models.ItemTypeAssistantMessage,
					Content: item.Compacted.Message,
				})
			}
		}
	}

	return Reconstruction{History: history}
}

// BuildForked performs the same reconstruction as BuildResumed, and also
// returns the replayed Items so the caller can persist them into the new
// rollout file before continuing.
func BuildForked(items []Item, initialContext []models.ConversationItem) Reconstruction {
	resumed := BuildResumed(items, initialContext)
	return Reconstruction{History: resumed.History, ReplayItems: items}
}

func collectUserMessages(history []models.ConversationItem) []models.ConversationItem {
	var out []models.ConversationItem
	for _, item := range history {
		if item.Type == models.ItemTypeUserMessage {
			out = append(out, item)
		}
	}
	return out
}

// ReadItems reads every Item from a rollout file in order. A missing file
// is not an error — it yields zero items, matching a fresh conversation.
func ReadItems(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("rollout: open %s: %w", path, err)
	}
	defer f.Close()

	var items []Item
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var item Item
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("rollout: decode %s line %d: %w", path, lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rollout: scan %s: %w", path, err)
	}
	return items, nil
}
