package redis

import (
	redis_utils "Cardex/services/redis/utils"
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	app_constants "Cardex/constants/app"
)

// Presence entries expire on their own so a crashed client eventually
// shows up as Offline without any cleanup job.
const presenceTTL = 5 * time.Minute

// RedisClient handles Redis operations: coarse presence tracking and the
// friends change-notification channels.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SetPresence stores a user's coarse status ("Online"/"Offline"/"Playing").
// Key format: "presence:{username}"
func (rc *RedisClient) SetPresence(username string, status string) error {
	key := redis_utils.FormatPresenceKey(username)
	return rc.client.Set(rc.ctx, key, status, presenceTTL).Err()
}

// GetPresence retrieves a user's status, defaulting to Offline when the
// key is missing or Redis is unreachable.
func (rc *RedisClient) GetPresence(username string) string {
	key := redis_utils.FormatPresenceKey(username)
	status, err := rc.client.Get(rc.ctx, key).Result()
	if err != nil {
		return app_constants.StatusOffline
	}
	return status
}

// ClearPresence removes a user's presence key on disconnect.
func (rc *RedisClient) ClearPresence(username string) error {
	return rc.client.Del(rc.ctx, redis_utils.FormatPresenceKey(username)).Err()
}

// PublishFriendsUpdate notifies a user's live sessions that their
// relation set changed and must be reloaded.
// Channel format: "friends:{username}"
func (rc *RedisClient) PublishFriendsUpdate(ctx context.Context, username string) error {
	channel := redis_utils.FormatFriendsChannel(username)
	return rc.client.Publish(ctx, channel, "reload").Err()
}

// SubscribeFriendsUpdates subscribes to a user's friends channel. The
// returned channel yields one value per notification and is closed when
// the returned cancel function runs or ctx ends.
func (rc *RedisClient) SubscribeFriendsUpdates(ctx context.Context, username string) (<-chan string, func()) {
	channel := redis_utils.FormatFriendsChannel(username)
	pubsub := rc.client.Subscribe(ctx, channel)

	out := make(chan string, 8)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				default:
					// Session reloads the full snapshot anyway, a
					// dropped duplicate notification is harmless
				}
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("Error closing friends subscription for %s: %v", username, err)
		}
	}
	return out, cancel
}
