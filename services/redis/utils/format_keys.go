package utils

/**
 * This file contains utility functions to format the keys and channel
 * names used in Redis. It avoids having to call "fmt.Sprintf(...)"
 * with the same format spec every time, potentially confusing the key format.
 */

import "fmt"

func FormatPresenceKey(username string) string {
	return fmt.Sprintf("presence:%s", username)
}

func FormatFriendsChannel(username string) string {
	return fmt.Sprintf("friends:%s", username)
}
