package socket_io

import (
	app_constants "Cardex/constants/app"
	models "Cardex/models/postgres"
	"Cardex/services/friends"
	"Cardex/services/redis"
	"Cardex/services/socket_io/handlers"
	"context"

	socketio_types "Cardex/services/socket_io/types"
	socketio_utils "Cardex/services/socket_io/utils"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient) {
	log.DEBUG = true
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: inicializar el map, sino panikea
	sio.UserConnections = make(map[string]*socket.Socket)

	directory := friends.NewDirectory(friends.NewGormRepository(db), redisClient)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, username, email := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		// Add connection to map
		(*socketio_types.SocketServer)(sio).AddConnection(username, client)

		fmt.Println("An individual just connected!: ", username, email)

		if err := redisClient.SetPresence(username, app_constants.StatusOnline); err != nil {
			fmt.Println("Error setting presence for", username, ":", err)
		}

		// One live session per connection: its goroutine owns the
		// snapshot, the filter and the search text
		session := friends.NewSession(username, directory.SnapshotByUsername)

		ctx, cancel := context.WithCancel(context.Background())
		notifications, unsubscribe := redisClient.SubscribeFriendsUpdates(ctx, username)
		go session.Watch(ctx, notifications, func(view []models.FriendRelation) {
			handlers.EmitFriendsView(client, redisClient, view)
		})

		// Push the initial snapshot
		if view, err := session.Reload(ctx); err == nil {
			handlers.EmitFriendsView(client, redisClient, view)
		}

		// Switch the live view's filter (all, pending, sent, favorites)
		client.On("set_filter", handlers.HandleSetFilter(client, redisClient, session))

		// Narrow the live view by a username substring
		client.On("set_search", handlers.HandleSetSearch(client, redisClient, session))

		// Per-filter counts for the tab badges
		client.On("get_counts", handlers.HandleGetCounts(client, session))

		// Set the coarse status friends see (Online/Offline/Playing)
		client.On("set_status", handlers.HandleSetStatus(client, redisClient, username))

		// NOTE: will remove sio connection from map
		client.On("disconnecting", handlers.HandleDisconnecting(username, client, (*socketio_types.SocketServer)(sio), redisClient, session, func() {
			unsubscribe()
			cancel()
		}))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}
