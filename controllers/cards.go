package controllers

import (
	"Cardex/middleware"
	models "Cardex/models/postgres"
	"Cardex/services/cards"
	"Cardex/services/friends"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func cardJSON(card *models.Card) gin.H {
	return gin.H{
		"id":          card.ID,
		"name":        card.Name,
		"rarity":      card.Rarity,
		"rarity_name": models.RarityName(card.Rarity),
		"type":        card.Type,
		"image":       card.Image,
		"description": card.Description,
	}
}

// @Summary Get the shared card catalog
// @Description Returns every catalog card
// @Tags cards
// @Produce json
// @Success 200 {object} object{cards=[]object{id=string,name=string,rarity=integer,type=string}}
// @Failure 500 {object} object{error=string}
// @Router /cards [get]
func GetAllCards(svc *cards.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog, err := svc.ListCatalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"cards": []gin.H{}, "error": err.Error()})
			return
		}
		list := make([]gin.H, len(catalog))
		for i := range catalog {
			list[i] = cardJSON(&catalog[i])
		}
		c.JSON(http.StatusOK, gin.H{"cards": list})
	}
}

// @Summary Get the pack skins
// @Description Returns the pack skins shown on the home screen with their availability flags
// @Tags cards
// @Produce json
// @Success 200 {object} object{packs=[]object{id=integer,name=string,is_available=bool}}
// @Router /packs [get]
func GetPacks(svc *cards.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		packs, err := svc.ListPacks(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"packs": []gin.H{}, "error": err.Error()})
			return
		}
		list := make([]gin.H, len(packs))
		for i, p := range packs {
			list[i] = gin.H{
				"id":           p.ID,
				"name":         p.Name,
				"colors":       p.Colors,
				"is_available": p.IsAvailable,
			}
		}
		c.JSON(http.StatusOK, gin.H{"packs": list})
	}
}

// @Summary Open a pack
// @Description Performs one weighted-random draw (70% common, 25% rare, 5% legendary) and appends the card to the user's collection. When the card cannot be persisted the draw still succeeds and the response carries a warning.
// @Tags cards
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{success=bool,card=object{id=string,name=string,rarity=integer}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /auth/packs/open [post]
// @Security ApiKeyAuth
func OpenPack(svc *cards.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized"})
			return
		}

		result, err := svc.OpenPack(c.Request.Context(), email)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"card":    cardJSON(&result.Card),
			"warning": warningField(result.Warning),
		})
	}
}

func collectionJSON(collection []cards.CardCount) gin.H {
	list := make([]gin.H, len(collection))
	for i, entry := range collection {
		item := cardJSON(&entry.Card)
		item["count"] = entry.Count
		list[i] = item
	}
	total, unique := cards.Totals(collection)
	return gin.H{"collection": list, "total_cards": total, "unique_cards": unique}
}

// @Summary Get the user's collection
// @Description Returns the authenticated user's aggregated collection: one entry per catalog card with a copy count, sorted by rarity descending then name
// @Tags cards
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{collection=[]object{count=integer},total_cards=integer,unique_cards=integer}
// @Failure 401 {object} object{error=string}
// @Router /auth/collection [get]
// @Security ApiKeyAuth
func GetUserCollection(svc *cards.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		collection, err := svc.CollectionForEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"collection": []gin.H{}, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, collectionJSON(collection))
	}
}

// @Summary Get a friend's collection
// @Description Returns the aggregated collection of an accepted friend
// @Tags cards
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param username path string true "Username of the friend"
// @Success 200 {object} object{collection=[]object{count=integer},total_cards=integer,unique_cards=integer}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/{username}/collection [get]
// @Security ApiKeyAuth
func GetFriendCollection(svc *cards.Service, frepo friends.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		actor, err := frepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Usernames are stored lowercase; normalize the path the same way
		friendUsername := strings.ToLower(c.Param("username"))
		rel, err := frepo.GetRelation(c.Request.Context(), actor.Username, friendUsername)
		if err != nil || rel.Status != models.RelationAccepted {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view collections of accepted friends"})
			return
		}

		friendUser, err := frepo.GetUserByUsername(c.Request.Context(), friendUsername)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		collection, err := svc.AggregateCollection(c.Request.Context(), friendUser.ID)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"collection": []gin.H{}, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, collectionJSON(collection))
	}
}
