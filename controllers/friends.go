package controllers

import (
	app_constants "Cardex/constants/app"
	"Cardex/middleware"
	models "Cardex/models/postgres"
	"Cardex/services/friends"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PresenceSource reports the coarse status shown next to accepted
// friends. The Redis client implements it.
type PresenceSource interface {
	GetPresence(username string) string
}

func relationJSON(rel *models.FriendRelation, presence PresenceSource) gin.H {
	status := app_constants.StatusOffline
	if presence != nil && rel.Status == models.RelationAccepted {
		status = presence.GetPresence(rel.FriendUsername)
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

// @Summary List the user's friend relations
// @Description Returns the authenticated user's relations under a view filter (all, pending, sent, favorites) optionally narrowed by a case-insensitive username search. Read failures degrade to an empty list plus an error field.
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param filter query string false "all | pending | sent | favorites"
// @Param search query string false "Substring to match against usernames"
// @Success 200 {object} object{friends=[]object{username=string,pfp=string,email=string,status=string,friendship_status=string,is_favorite=bool}}
// @Failure 401 {object} object{error=string}
// @Router /auth/friends [get]
// @Security ApiKeyAuth
func ListFriends(d *friends.Directory, presence PresenceSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		filter := friends.ParseFilter(c.Query("filter"))
		search := c.Query("search")

		snapshot, err := d.Snapshot(c.Request.Context(), email)
		if err != nil {
			// Degrade instead of failing: empty list plus the reason
			c.JSON(http.StatusOK, gin.H{"friends": []gin.H{}, "error": err.Error()})
			return
		}

		view := friends.ApplyFilter(snapshot, filter, search)
		list := make([]gin.H, len(view))
		for i := range view {
			list[i] = relationJSON(&view[i], presence)
		}
		c.JSON(http.StatusOK, gin.H{"friends": list})
	}
}

// @Summary Count relations per view filter
// @Description Returns how many relations each filter would show, independent of any search text
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{all=integer,pending=integer,sent=integer,favorites=integer}
// @Failure 401 {object} object{error=string}
// @Router /auth/friends/counts [get]
// @Security ApiKeyAuth
func GetFriendCounts(d *friends.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		snapshot, err := d.Snapshot(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"all": 0, "pending": 0, "sent": 0, "favorites": 0,
				"error": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"all":       friends.CountFor(snapshot, friends.FilterAll),
			"pending":   friends.CountFor(snapshot, friends.FilterPending),
			"sent":      friends.CountFor(snapshot, friends.FilterSent),
			"favorites": friends.CountFor(snapshot, friends.FilterFavorites),
		})
	}
}

// @Summary Send a friend request
// @Description Creates the mirrored request pair: "sent" on the sender's side, "pending" on the recipient's side
// @Tags friends
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendUsername formData string true "Username of the recipient"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /auth/sendFriendRequest [post]
// @Security ApiKeyAuth
func SendFriendRequest(d *friends.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		outcome, err := d.SendRequest(c.Request.Context(), email, c.PostForm("friendUsername"))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": outcome.Message, "warning": warningField(outcome.Warning)})
	}
}

// @Summary Accept a pending friend request
// @Description Marks the relation accepted on the actor's side and best effort on the counterpart's side
// @Tags friends
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendUsername formData string true "Username of the requester"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /auth/acceptFriendRequest [post]
// @Security ApiKeyAuth
func AcceptFriendRequest(d *friends.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		outcome, err := d.AcceptRequest(c.Request.Context(), email, c.PostForm("friendUsername"))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": outcome.Message, "warning": warningField(outcome.Warning)})
	}
}

// @Summary Decline an incoming friend request
// @Description Removes both mirror rows of the request
// @Tags friends
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendUsername formData string true "Username of the requester"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /auth/declineFriendRequest [post]
// @Security ApiKeyAuth
func DeclineFriendRequest(d *friends.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		outcome, err := d.DeclineRequest(c.Request.Context(), email, c.PostForm("friendUsername"))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": outcome.Message, "warning": warningField(outcome.Warning)})
	}
}

// @Summary Remove a friend
// @Description Deletes the actor's relation row; success is reported on that deletion alone while the counterpart's row is deleted best effort
// @Tags friends
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendUsername formData string true "Username of the friend to be removed"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Security ApiKeyAuth
// @Router /auth/deleteFriend [delete]
func RemoveFriend(d *friends.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		outcome, err := d.RemoveRelation(c.Request.Context(), email, c.PostForm("friendUsername"))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": outcome.Message, "warning": warningField(outcome.Warning)})
	}
}

// @Summary Toggle the favorite flag of a friend
// @Description Flips is_favorite on the actor's own relation row; favorites are never mirrored
// @Tags friends
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param friendUsername formData string true "Username of the friend"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /auth/toggleFavorite [patch]
// @Security ApiKeyAuth
func ToggleFavorite(d *friends.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		outcome, err := d.ToggleFavorite(c.Request.Context(), email, c.PostForm("friendUsername"))
		if err != nil {
			c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": outcome.Message})
	}
}
