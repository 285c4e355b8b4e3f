package db

import (
  "fmt"
  "os"
  "time"
  "github.com/google/uuid"
  "gopkg.in/yaml.v3"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/logger"
  "github.com/qfeed/qfeed-backend/internal/types"
)

type qsetSeedFile struct {
  Qsets []qsetSeed `yaml:"qsets"`
}

type qsetSeed struct {
  Name    string   `yaml:"name"`
  Prompts []string `yaml:"prompts"`
}

// SeedQsets loads the question-set catalog from a YAML file and inserts
// any set not present yet. Existing sets are never modified: Qsets are
// immutable once users have started traversing them.
func SeedQsets(db *gorm.DB, log *logger.Logger, path string) error {
  seedLog := log.With("component", "QsetSeed")
  raw, err := os.ReadFile(path)
  if err != nil {
    return fmt.Errorf("failed to read qset seed file %q: %w", path, err)
  }
  var file qsetSeedFile
  if err := yaml.Unmarshal(raw, &file); err != nil {
    return fmt.Errorf("failed to parse qset seed file %q: %w", path, err)
  }

  return db.Transaction(func(tx *gorm.DB) error {
    for position, seed := range file.Qsets {
      if seed.Name == "" {
        return fmt.Errorf("qset seed at position %d has no name", position)
      }
      if len(seed.Prompts) == 0 {
        return fmt.Errorf("qset seed %q has no prompts", seed.Name)
      }
      var count int64
      if err := tx.Model(&types.Qset{}).Where("name = ?", seed.Name).Count(&count).Error; err != nil {
        return err
      }
      if count > 0 {
        continue
      }
      now := time.Now()
      qset := types.Qset{
        ID:       uuid.New(),
        Name:     seed.Name,
        Position: position,
        Prompts:  datatypes.NewJSONSlice(seed.Prompts),
        Timestamps: types.Timestamps{CreatedAt: now, UpdatedAt: now},
      }
      if err := tx.Create(&qset).Error; err != nil {
        return fmt.Errorf("failed to seed qset %q: %w", seed.Name, err)
      }
      seedLog.Info("Seeded qset", "name", seed.Name, "position", position, "prompts", len(seed.Prompts))
    }
    return nil
  })
}
