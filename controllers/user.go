package controllers

import (
	app_constants "Cardex/constants/app"
	"Cardex/middleware"
	models "Cardex/models/postgres"
	"Cardex/services/friends"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Register a new account
// @Description Creates an account. The username is lowercased and must be unique; uniqueness is checked before the write and enforced again by a unique index, so a race between two signups cannot create duplicates.
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param username formData string true "Username (at least 3 characters)"
// @Param password formData string true "Password"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.PostForm("email"))
		username := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
		password := c.PostForm("password")

		if email == "" || username == "" || password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields"})
			return
		}
		if len(username) < app_constants.MinUsernameLength {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be at least 3 characters"})
			return
		}

		// Availability check first; the unique index is the backstop
		var existing models.User
		if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This username is already taken"})
			return
		}
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An account with this email already exists"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating account"})
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Email:        email,
			Username:     username,
			PasswordHash: string(hash),
			Pfp:          app_constants.DefaultProfilePicture,
		}
		if err := db.Create(&user).Error; err != nil {
			// Lost the race against a concurrent signup
			c.JSON(http.StatusBadRequest, gin.H{"error": "This username is already taken"})
			return
		}

		token, err := middleware.GenerateToken(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// @Summary Log in
// @Description Verifies credentials and returns a JWT
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email := c.PostForm("email")
		password := c.PostForm("password")

		// Minimum input sanitizing
		if strings.Trim(email, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		token, err := middleware.GenerateToken(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
			return
		}

		session.Set("Email", user.Email)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No session!"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// @Summary Log out
// @Description Deletes the session associated with the Email key
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
// @Security ApiKeyAuth
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("Email")
	// There is no session for the user, won't delete nothing
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete("Email")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Get a user's public info
// @Description Returns the public profile of any user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} object{username=string,pfp=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{username} [get]
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		username := strings.ToLower(c.Param("username"))
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No user found with username '%s'", username)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": user.Username, "pfp": user.Pfp})
	}
}

// @Summary Get the authenticated user's private info
// @Description Returns the full profile of the authenticated user
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{username=string,email=string,pfp=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func GetUserPrivateInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username":     user.Username,
			"email":        user.Email,
			"pfp":          user.Pfp,
			"member_since": user.MemberSince,
		})
	}
}

// @Summary Update profile info
// @Description Changes the profile picture (must belong to the bundled set) and/or the username (uniqueness re-checked)
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param pfp formData string false "New profile picture name"
// @Param username formData string false "New username"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/update [patch]
// @Security ApiKeyAuth
func UpdateUserInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
			return
		}

		updates := map[string]interface{}{}

		if pfp := c.PostForm("pfp"); pfp != "" {
			if !app_constants.IsValidProfilePicture(pfp) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown profile picture"})
				return
			}
			updates["pfp"] = pfp
		}

		if username := strings.ToLower(strings.TrimSpace(c.PostForm("username"))); username != "" && username != user.Username {
			if len(username) < app_constants.MinUsernameLength {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username must be at least 3 characters"})
				return
			}
			var existing models.User
			if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "This username is already taken"})
				return
			}
			updates["username"] = username
		}

		if len(updates) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
			return
		}

		// A rename must also rewrite the friend_username column of every
		// mirror row the user's friends own; the user's own rows follow
		// the account row through the foreign key. Without the mirror
		// update the next reconciliation would see every pair as
		// orphaned and drop the whole friend graph.
		oldUsername := user.Username
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
			if newUsername, ok := updates["username"].(string); ok {
				return friends.NewGormRepository(tx).
					UpdateFriendUsername(c.Request.Context(), oldUsername, newUsername)
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
	}
}

// @Summary Delete the authenticated account
// @Description Deletes the user and, through the foreign key, the relation rows the user owns. Mirror rows owned by other users are cleaned up by reconciliation on their next read. Owned-card rows are kept.
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/deleteAccount [delete]
// @Security ApiKeyAuth
func DeleteAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := middleware.JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}

// @Summary Get a list of all users
// @Description Returns the public profile of every user
// @Tags users
// @Produce json
// @Success 200 {array} object{username=string,pfp=string}
// @Failure 500 {object} object{error=string}
// @Router /allusers [get]
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("username ASC").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
			return
		}
		list := make([]gin.H, len(users))
		for i, u := range users {
			list[i] = gin.H{"username": u.Username, "pfp": u.Pfp}
		}
		c.JSON(http.StatusOK, list)
	}
}
