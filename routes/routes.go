package routes

import (
	"Cardex/controllers"
	"Cardex/middleware"
	"Cardex/services/cards"
	"Cardex/services/friends"
	"Cardex/services/redis"
	utils "Cardex/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient) {
	// Shared service instances; controllers only see the interfaces
	friendsRepo := friends.NewGormRepository(db)
	directory := friends.NewDirectory(friendsRepo, redisClient)
	cardService := cards.NewService(cards.NewGormRepository(db))

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/allusers", controllers.GetAllUsers(db))

	api.GET("/users/:username", controllers.GetUserPublicInfo(db))

	api.POST("/login", controllers.Login(db))

	api.POST("/signup", controllers.SignUp(db))

	api.GET("/cards", controllers.GetAllCards(cardService))

	api.GET("/packs", controllers.GetPacks(cardService))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.GetUserPrivateInfo(db))

		authentication.PATCH("/update", controllers.UpdateUserInfo(db))

		authentication.DELETE("/deleteAccount", controllers.DeleteAccount(db))

		authentication.GET("/friends", controllers.ListFriends(directory, redisClient))

		authentication.GET("/friends/counts", controllers.GetFriendCounts(directory))

		authentication.POST("/sendFriendRequest", controllers.SendFriendRequest(directory))

		authentication.POST("/acceptFriendRequest", controllers.AcceptFriendRequest(directory))

		authentication.POST("/declineFriendRequest", controllers.DeclineFriendRequest(directory))

		authentication.DELETE("/deleteFriend", controllers.RemoveFriend(directory))

		authentication.PATCH("/toggleFavorite", controllers.ToggleFavorite(directory))

		authentication.POST("/packs/open", controllers.OpenPack(cardService))

		authentication.GET("/collection", controllers.GetUserCollection(cardService))

		authentication.GET("/friends/:username/collection", controllers.GetFriendCollection(cardService, friendsRepo))
	}
}
