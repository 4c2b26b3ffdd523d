package updates

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/samber/mo"

	"macrofeed/core"
	"macrofeed/models"
	"macrofeed/utils"
)

const DefaultMaxUpdatesPerMacro = 100

var emptyEmbeds = json.RawMessage("[]")

// UpdatesService keeps the newest updates of every macro in memory.
// Each log is ordered newest-first by insertion and never grows past maxPerMacro.
type UpdatesService struct {
	mu          sync.RWMutex
	logs        map[string][]*models.Update
	maxPerMacro int
	ids         *core.UpdateIDGenerator
}

func NewUpdatesService(maxPerMacro int, ids *core.UpdateIDGenerator) *UpdatesService {
	utils.AssertInvariant(maxPerMacro > 0, "max updates per macro must be positive")
	utils.AssertInvariant(ids != nil, "id generator cannot be nil")

	return &UpdatesService{
		logs:        make(map[string][]*models.Update),
		maxPerMacro: maxPerMacro,
		ids:         ids,
	}
}

func (s *UpdatesService) AppendUpdate(ctx context.Context, payload models.WebhookPayload) (*models.Update, error) {
	macro := payload.Macro
	if macro == "" {
		macro = models.DefaultMacroName
	}
	author := payload.Author
	if author == "" {
		author = models.DefaultAuthorName
	}
	embeds := payload.Embeds
	if len(embeds) == 0 {
		embeds = emptyEmbeds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// ids are drawn under the lock so insertion order and id order agree
	id, receivedAt := s.ids.Next()
	update := &models.Update{
		ID:        id,
		Timestamp: models.FormatUpdateTimestamp(receivedAt),
		Content:   payload.Content,
		Embeds:    embeds,
		Author:    author,
		Macro:     macro,
	}

	current := s.logs[macro]
	keep := len(current)
	if keep > s.maxPerMacro-1 {
		keep = s.maxPerMacro - 1
	}

	next := make([]*models.Update, 0, keep+1)
	next = append(next, update)
	next = append(next, current[:keep]...)
	s.logs[macro] = next

	if keep < len(current) {
		log.Printf("🧹 [%s] Dropped %d oldest update(s) to stay within %d", macro, len(current)-keep, s.maxPerMacro)
	}
	return update, nil
}

// GetUpdates returns a copy of the macro's log, newest first. Unknown macros yield an empty slice.
func (s *UpdatesService) GetUpdates(ctx context.Context, macro string) ([]*models.Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.logs[macro]
	result := make([]*models.Update, len(current))
	copy(result, current)
	return result, nil
}

func (s *UpdatesService) GetUpdateByID(ctx context.Context, macro string, id int64) (mo.Option[*models.Update], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, update := range s.logs[macro] {
		if update.ID == id {
			return mo.Some(update), nil
		}
	}
	return mo.None[*models.Update](), nil
}

// ClearUpdates empties a known macro's log. Clearing an unknown macro is a no-op.
func (s *UpdatesService) ClearUpdates(ctx context.Context, macro string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[macro]; ok {
		s.logs[macro] = []*models.Update{}
	}
	return nil
}

func (s *UpdatesService) ClearAllUpdates(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for macro := range s.logs {
		s.logs[macro] = []*models.Update{}
	}
	return nil
}
