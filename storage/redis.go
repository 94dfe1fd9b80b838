package storage

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client

var redisContext = context.Background()

// CalendarCacheKey holds the public calendar JSON projection.
const CalendarCacheKey = "calendar:days"

// CalendarCacheTTL caps staleness if an invalidation is ever missed.
const CalendarCacheTTL = 60 * time.Second

func InitializeRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
		log.Println("REDIS_URL not set, using localhost:6379 (development mode)")
	}

	Redis = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: "",
		DB:       0,
	})

	log.Println("Redis initialized with address:", redisURL)
}

// GetCachedCalendar returns the cached calendar JSON, or "" on miss.
func GetCachedCalendar() string {
	if Redis == nil {
		return ""
	}
	val, err := Redis.Get(redisContext, CalendarCacheKey).Result()
	if err != nil {
		return ""
	}
	return val
}

// SetCachedCalendar stores the calendar JSON projection.
func SetCachedCalendar(payload string) {
	if Redis == nil {
		return
	}
	Redis.Set(redisContext, CalendarCacheKey, payload, CalendarCacheTTL)
}

// InvalidateCalendarCache drops the projection after any day or reservation
// mutation.
func InvalidateCalendarCache() {
	if Redis == nil {
		return
	}
	Redis.Del(redisContext, CalendarCacheKey)
}
