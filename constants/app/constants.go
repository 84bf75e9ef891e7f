package app_constants

// Profile pictures bundled with the mobile client. A user's pfp must
// always be one of these names.
var ProfilePictures = []string{
	"tcgpfp",
	"login",
	"signup",
	"charizard",
	"psyduck",
	"slowpoke",
	"dragonite",
	"celebi",
	"drowzee",
	"geodude",
}

const DefaultProfilePicture = "tcgpfp"

const MinUsernameLength = 3

// Presence statuses shown next to accepted friends. The status field is
// free text at the storage level, these are just the values the backend
// itself writes.
const (
	StatusOnline  = "Online"
	StatusOffline = "Offline"
	StatusPlaying = "Playing"
)

// IsValidProfilePicture reports whether name belongs to the bundled set.
func IsValidProfilePicture(name string) bool {
	for _, p := range ProfilePictures {
		if p == name {
			return true
		}
	}
	return false
}
