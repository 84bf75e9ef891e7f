package controllers_test

import (
	"Cardex/controllers"
	"Cardex/middleware"
	models "Cardex/models/postgres"
	"Cardex/services/friends"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPresence map[string]string

func (p staticPresence) GetPresence(username string) string {
	if status, ok := p[username]; ok {
		return status
	}
	return "Offline"
}

func friendsTestRouter(t *testing.T, repo *friends.InMemoryRepository, presence controllers.PresenceSource) *gin.Engine {
	t.Setenv("KEY", "test-signing-key")
	gin.SetMode(gin.TestMode)

	d := friends.NewDirectory(repo, nil)

	router := gin.New()
	auth := router.Group("/auth")
	auth.Use(middleware.AuthRequired)
	{
		auth.GET("/friends", controllers.ListFriends(d, presence))
		auth.GET("/friends/counts", controllers.GetFriendCounts(d))
		auth.POST("/sendFriendRequest", controllers.SendFriendRequest(d))
		auth.POST("/acceptFriendRequest", controllers.AcceptFriendRequest(d))
		auth.POST("/declineFriendRequest", controllers.DeclineFriendRequest(d))
		auth.DELETE("/deleteFriend", controllers.RemoveFriend(d))
		auth.PATCH("/toggleFavorite", controllers.ToggleFavorite(d))
	}
	return router
}

func seedFriendsRepo() *friends.InMemoryRepository {
	repo := friends.NewInMemoryRepository()
	repo.AddUser(&models.User{ID: "u1", Email: "ana@test.com", Username: "ana", Pfp: "tcgpfp"})
	repo.AddUser(&models.User{ID: "u2", Email: "bob@test.com", Username: "bob", Pfp: "tcgpfp2"})
	return repo
}

func doForm(router *gin.Engine, method, path, email string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if email != "" {
		token, _ := middleware.GenerateToken(email)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestFriendRequestLifecycleOverHTTP(t *testing.T) {
	repo := seedFriendsRepo()
	router := friendsTestRouter(t, repo, staticPresence{})

	// Send
	w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
		url.Values{"friendUsername": {"bob"}})
	require.Equal(t, http.StatusOK, w.Code)

	var sendResp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sendResp))
	assert.True(t, sendResp.Success)
	assert.Equal(t, "Friend request sent to bob!", sendResp.Message)

	// Accept from the other side
	w = doForm(router, http.MethodPost, "/auth/acceptFriendRequest", "bob@test.com",
		url.Values{"friendUsername": {"ana"}})
	require.Equal(t, http.StatusOK, w.Code)

	// Both lists now show an accepted friend
	for _, email := range []string{"ana@test.com", "bob@test.com"} {
		w = doForm(router, http.MethodGet, "/auth/friends", email, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var listResp struct {
			Friends []map[string]interface{} `json:"friends"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
		require.Len(t, listResp.Friends, 1)
		assert.Equal(t, "accepted", listResp.Friends[0]["friendship_status"])
	}

	// Remove
	w = doForm(router, http.MethodDelete, "/auth/deleteFriend", "ana@test.com",
		url.Values{"friendUsername": {"bob"}})
	require.Equal(t, http.StatusOK, w.Code)

	var removeResp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &removeResp))
	assert.Equal(t, "Friend removed successfully", removeResp.Message)
}

func TestSendFriendRequestErrorsOverHTTP(t *testing.T) {
	repo := seedFriendsRepo()
	router := friendsTestRouter(t, repo, staticPresence{})

	t.Run("unknown target is 404", func(t *testing.T) {
		w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
			url.Values{"friendUsername": {"ghost"}})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "No user found with username 'ghost'")
	})

	t.Run("self reference is 400", func(t *testing.T) {
		w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
			url.Values{"friendUsername": {"ana"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "cannot add yourself")
	})

	t.Run("missing token is 401", func(t *testing.T) {
		w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "",
			url.Values{"friendUsername": {"bob"}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListFriendsFilterAndPresence(t *testing.T) {
	repo := seedFriendsRepo()
	repo.AddUser(&models.User{ID: "u3", Email: "cleo@test.com", Username: "cleo", Pfp: "tcgpfp3"})
	router := friendsTestRouter(t, repo, staticPresence{"bob": "Online"})

	// ana: accepted with bob, outgoing request to cleo
	w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
		url.Values{"friendUsername": {"bob"}})
	require.Equal(t, http.StatusOK, w.Code)
	w = doForm(router, http.MethodPost, "/auth/acceptFriendRequest", "bob@test.com",
		url.Values{"friendUsername": {"ana"}})
	require.Equal(t, http.StatusOK, w.Code)
	w = doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
		url.Values{"friendUsername": {"cleo"}})
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Friends []map[string]interface{} `json:"friends"`
	}

	// Default filter shows accepted only, with live presence
	w = doForm(router, http.MethodGet, "/auth/friends", "ana@test.com", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Friends, 1)
	assert.Equal(t, "bob", listResp.Friends[0]["username"])
	assert.Equal(t, "Online", listResp.Friends[0]["status"])

	// Sent filter shows the outgoing request, presence pinned to Offline
	w = doForm(router, http.MethodGet, "/auth/friends?filter=sent", "ana@test.com", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Friends, 1)
	assert.Equal(t, "cleo", listResp.Friends[0]["username"])
	assert.Equal(t, "Offline", listResp.Friends[0]["status"])

	// Search narrows the view
	w = doForm(router, http.MethodGet, "/auth/friends?search=zzz", "ana@test.com", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Empty(t, listResp.Friends)

	// Counts are independent of search
	w = doForm(router, http.MethodGet, "/auth/friends/counts", "ana@test.com", nil)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["all"])
	assert.Equal(t, 1, counts["sent"])
	assert.Equal(t, 0, counts["pending"])
	assert.Equal(t, 0, counts["favorites"])
}

func TestToggleFavoriteOverHTTP(t *testing.T) {
	repo := seedFriendsRepo()
	router := friendsTestRouter(t, repo, staticPresence{})

	w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
		url.Values{"friendUsername": {"bob"}})
	require.Equal(t, http.StatusOK, w.Code)
	w = doForm(router, http.MethodPost, "/auth/acceptFriendRequest", "bob@test.com",
		url.Values{"friendUsername": {"ana"}})
	require.Equal(t, http.StatusOK, w.Code)

	w = doForm(router, http.MethodPatch, "/auth/toggleFavorite", "ana@test.com",
		url.Values{"friendUsername": {"bob"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Friend marked as favorite")

	var listResp struct {
		Friends []map[string]interface{} `json:"friends"`
	}
	w = doForm(router, http.MethodGet, "/auth/friends?filter=favorites", "ana@test.com", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Friends, 1)
	assert.Equal(t, true, listResp.Friends[0]["is_favorite"])
}

func TestListFriendsDegradesOnStoreFailure(t *testing.T) {
	repo := seedFriendsRepo()
	router := friendsTestRouter(t, repo, staticPresence{})

	// The actor resolves but the relation listing fails
	w := doForm(router, http.MethodPost, "/auth/sendFriendRequest", "ana@test.com",
		url.Values{"friendUsername": {"bob"}})
	require.Equal(t, http.StatusOK, w.Code)

	repo.FailListsFor["ana"] = true

	w = doForm(router, http.MethodGet, "/auth/friends", "ana@test.com", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Friends []map[string]interface{} `json:"friends"`
		Error   string                   `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Friends)
	assert.NotEmpty(t, resp.Error)
}
