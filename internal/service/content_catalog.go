package service

import (
	"fmt"
	"sync"

	"github.com/thisisniagahub/quran-agent/internal/model"

	"github.com/spf13/viper"
)

// FallbackContent is recited when no catalog entry matches.
const FallbackContent = "Surah Al-Fatiha 1-7"

// ContentCatalog maps (error category, level) to the passage a lesson
// should target. Ships with built-in defaults; a YAML file can
// override entries and is hot-reloadable, so the mutex guards reloads
// racing reads during a long analysis run.
type ContentCatalog struct {
	mu      sync.RWMutex
	entries map[model.ErrorType]map[model.Level]string
}

func NewContentCatalog() *ContentCatalog {
	return &ContentCatalog{
		entries: map[model.ErrorType]map[model.Level]string{
			model.ErrorTypeMakhraj: {
				model.LevelBeginner:     "Surah Al-Ikhlas 1-4",
				model.LevelIntermediate: "Surah Qaf 1-5",
				model.LevelAdvanced:     "Surah Al-Mursalat 1-15",
			},
			model.ErrorTypeTajwid: {
				model.LevelBeginner:     "Surah An-Nas 1-6",
				model.LevelIntermediate: "Surah Al-Baqarah 1-5",
				model.LevelAdvanced:     "Surah Yusuf 1-3",
			},
			model.ErrorTypeHarakat: {
				model.LevelBeginner:     "Surah Al-Asr 1-3",
				model.LevelIntermediate: "Surah Al-Adiyat 1-5",
				model.LevelAdvanced:     "Surah Al-Qamar 1-8",
			},
			model.ErrorTypeRhythm: {
				model.LevelBeginner:     "Surah Al-Kawthar 1-3",
				model.LevelIntermediate: "Surah Ar-Rahman 1-13",
				model.LevelAdvanced:     "Surah Al-Muzzammil 1-10",
			},
		},
	}
}

// TargetContent looks up the passage for one category and level,
// falling back to FallbackContent when nothing matches.
func (c *ContentCatalog) TargetContent(errType model.ErrorType, level model.Level) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if byLevel, ok := c.entries[errType]; ok {
		if content, ok := byLevel[level]; ok && content != "" {
			return content
		}
	}
	return FallbackContent
}

// LoadFile merges catalog overrides from a YAML file shaped as
// category -> level -> passage. Unknown categories or levels are
// rejected so a typo cannot silently hide a drill passage.
func (c *ContentCatalog) LoadFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read catalog %s: %w", path, err)
	}

	overrides := make(map[model.ErrorType]map[model.Level]string)
	for _, errType := range model.AllErrorTypes() {
		sub := v.GetStringMapString(string(errType))
		if len(sub) == 0 {
			continue
		}
		byLevel := make(map[model.Level]string)
		for levelKey, content := range sub {
			level, err := parseLevel(levelKey)
			if err != nil {
				return fmt.Errorf("catalog %s, category %s: %w", path, errType, err)
			}
			byLevel[level] = content
		}
		overrides[errType] = byLevel
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for errType, byLevel := range overrides {
		for level, content := range byLevel {
			c.entries[errType][level] = content
		}
	}
	return nil
}

func parseLevel(key string) (model.Level, error) {
	switch key {
	case "beginner":
		return model.LevelBeginner, nil
	case "intermediate":
		return model.LevelIntermediate, nil
	case "advanced":
		return model.LevelAdvanced, nil
	default:
		return "", fmt.Errorf("unknown level %q", key)
	}
}
