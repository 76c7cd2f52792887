// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

// CurrentSchemaVersion is stamped on every saved bank blob so a future
// format change can migrate old rows instead of discarding them.
const CurrentSchemaVersion = 1

// VocabBank holds one learner's entire entry collection as a single
// serialized blob. The collection is always read and replaced whole.
type VocabBank struct {
	ID            uint           `gorm:"primaryKey"`
	UserID        int64          `gorm:"uniqueIndex;not null"`
	SchemaVersion int            `gorm:"not null;default:1"`
	Entries       datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
