package snippets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cliphist/pkg/types"
)

// SnippetModel is the persisted form of a snippet.
type SnippetModel struct {
	gorm.Model
	Content     string `gorm:"type:text;not null"`
	ContentHash string `gorm:"uniqueIndex"`
}

func (m *SnippetModel) ToSnippet() *types.Snippet {
	return &types.Snippet{
		ID:        strconv.FormatUint(uint64(m.ID), 10),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// Store keeps snippets in a sqlite database. Snippets are deduplicated by
// content hash, so saving the same text twice returns the existing snippet.
type Store struct {
	db *gorm.DB
}

// New opens (or creates) the snippets database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open snippets database: %w", err)
	}

	if err := db.AutoMigrate(&SnippetModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snippets schema: %w", err)
	}

	return &Store{db: db}, nil
}

// calculateHash generates the SHA-256 hash of content
func calculateHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// Save stores content as a snippet and returns it. Existing content is
// returned as-is instead of being duplicated.
func (s *Store) Save(content string) (*types.Snippet, error) {
	contentHash := calculateHash(content)

	var existing SnippetModel
	if err := s.db.Where("content_hash = ?", contentHash).First(&existing).Error; err == nil {
		return existing.ToSnippet(), nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check for existing snippet: %w", err)
	}

	model := &SnippetModel{Content: content, ContentHash: contentHash}
	if err := s.db.Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to create snippet: %w", err)
	}

	return model.ToSnippet(), nil
}

// List returns snippets, newest first. limit <= 0 means no limit.
func (s *Store) List(limit int) ([]*types.Snippet, error) {
	query := s.db.Model(&SnippetModel{}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []SnippetModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}

	snippets := make([]*types.Snippet, len(models))
	for i := range models {
		snippets[i] = models[i].ToSnippet()
	}
	return snippets, nil
}

// Delete removes a snippet by ID.
func (s *Store) Delete(id string) error {
	result := s.db.Delete(&SnippetModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete snippet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no snippet found with id: %s", id)
	}
	return nil
}
