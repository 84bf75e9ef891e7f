package postgres

// Card rarities, ordinal so they sort naturally (common < rare < legendary).
const (
	RarityCommon    = 0
	RarityRare      = 1
	RarityLegendary = 2
)

// Elemental card types as the client knows them.
var CardTypes = []string{
	"fire", "water", "grass", "electric", "psychic", "rock", "dragon", "normal",
}

/*
 * 'Card' is an immutable catalog entry shared by every user. Users never
 * own Card rows directly, ownership goes through OwnedCard.
 */
type Card struct {
	ID          string `gorm:"primaryKey;size:36"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Rarity      int    `gorm:"not null;index"`
	Type        string `gorm:"size:20;not null"`
	Image       string `gorm:"size:100"`
	Description string `gorm:"size:500"`
}

// RarityName returns the display name for an ordinal rarity.
func RarityName(rarity int) string {
	switch rarity {
	case RarityLegendary:
		return "Legendary"
	case RarityRare:
		return "Rare"
	default:
		return "Common"
	}
}
