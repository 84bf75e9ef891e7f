package handlers

import (
	app_constants "Cardex/constants/app"
	models "Cardex/models/postgres"
	"Cardex/services/friends"
	"Cardex/services/redis"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// relationPayload mirrors the REST representation of a relation so the
// client renders pushed updates and fetched lists the same way. Presence
// is only looked up for accepted friends.
func relationPayload(rel *models.FriendRelation, redisClient *redis.RedisClient) gin.H {
	status := app_constants.StatusOffline
	if rel.Status == models.RelationAccepted {
		status = redisClient.GetPresence(rel.FriendUsername)
	}
	return gin.H{
		"username":          rel.FriendUsername,
		"pfp":               rel.FriendPfp,
		"email":             rel.FriendEmail,
		"status":            status,
		"friendship_status": rel.Status,
		"is_favorite":       rel.IsFavorite,
		"date_added":        rel.DateAdded,
	}
}

// EmitFriendsView pushes the current filtered view to one client.
func EmitFriendsView(client *socket.Socket, redisClient *redis.RedisClient, view []models.FriendRelation) {
	list := make([]gin.H, len(view))
	for i := range view {
		list[i] = relationPayload(&view[i], redisClient)
	}
	client.Emit("friends_update", gin.H{"friends": list})
}

// HandleSetFilter switches the session's view filter ("all", "pending",
// "sent", "favorites") and pushes the refreshed view back.
func HandleSetFilter(client *socket.Socket, redisClient *redis.RedisClient, session *friends.Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		name := ""
		if len(args) > 0 {
			name, _ = args[0].(string)
		}
		view := session.SetFilter(friends.ParseFilter(name))
		EmitFriendsView(client, redisClient, view)
	}
}

// HandleSetSearch narrows the session's view by a username substring and
// pushes the refreshed view back.
func HandleSetSearch(client *socket.Socket, redisClient *redis.RedisClient, session *friends.Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		text := ""
		if len(args) > 0 {
			text, _ = args[0].(string)
		}
		view := session.SetSearch(text)
		EmitFriendsView(client, redisClient, view)
	}
}

// HandleGetCounts emits how many relations each filter would show.
func HandleGetCounts(client *socket.Socket, session *friends.Session) func(args ...interface{}) {
	return func(args ...interface{}) {
		client.Emit("friend_counts", gin.H{
			"all":       session.Count(friends.FilterAll),
			"pending":   session.Count(friends.FilterPending),
			"sent":      session.Count(friends.FilterSent),
			"favorites": session.Count(friends.FilterFavorites),
		})
	}
}

// HandleSetStatus updates the user's coarse presence. Only the statuses
// friends can actually see are accepted.
func HandleSetStatus(client *socket.Socket, redisClient *redis.RedisClient, username string) func(args ...interface{}) {
	return func(args ...interface{}) {
		status := ""
		if len(args) > 0 {
			status, _ = args[0].(string)
		}
		switch status {
		case app_constants.StatusOnline, app_constants.StatusOffline, app_constants.StatusPlaying:
		default:
			client.Emit("error", gin.H{"error": "Unknown status"})
			return
		}
		if err := redisClient.SetPresence(username, status); err != nil {
			log.Printf("Error setting presence for %s: %v", username, err)
			client.Emit("error", gin.H{"error": "Could not update status"})
		}
	}
}
