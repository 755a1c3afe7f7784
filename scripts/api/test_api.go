// Minimal end-to-end check against a running MedShield relay.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/medshield/src/cache"
)

var (
	baseURL  = getenv("API_URL", "http://localhost:5000")
	redisURL = os.Getenv("REDIS_URL")
)

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

type scanResponse struct {
	Cached  bool              `json:"cached"`
	Results []json.RawMessage `json:"results"`
	Warning string            `json:"warning"`
}

func main() {
	health()

	// A fresh text per run so the first request always misses the cache.
	text := "integration-test " + uuid.NewString() + "\nApple cider vinegar cures diabetes. Smoking causes lung cancer."
	pageURL := "https://medshield.test/" + uuid.NewString()

	first := scan(text, pageURL)
	if first.Cached {
		log.Fatal("scan: first request unexpectedly cached")
	}
	if first.Warning != "" {
		log.Printf("scan: relay warning %q (model output was not parseable)", first.Warning)
	} else {
		second := scan(text, pageURL)
		if !second.Cached {
			log.Fatal("scan: second identical request not served from cache")
		}
		if redisURL != "" {
			checkRedis(text, pageURL)
		}
	}

	emptyText()
	fmt.Println("✓ all endpoints passed")
}

func health() {
	var resp struct{ Status string }
	doJSON("GET", "/healthz", nil, &resp, http.StatusOK)
	if resp.Status != "ok" {
		log.Fatalf("healthz: status %q", resp.Status)
	}
}

func scan(text, pageURL string) scanResponse {
	var resp scanResponse
	doJSON("POST", "/scan", map[string]any{"text": text, "url": pageURL}, &resp, http.StatusOK)
	return resp
}

func emptyText() {
	var resp struct{ Error string }
	doJSON("POST", "/scan", map[string]any{"text": ""}, &resp, http.StatusBadRequest)
	if resp.Error != "No text supplied" {
		log.Fatalf("empty text: error %q", resp.Error)
	}
}

// checkRedis looks for the entry the relay wrote when CACHE_BACKEND=redis.
func checkRedis(text, pageURL string) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := cache.RedisKey(cache.Fingerprint(cache.NormalizeText(text), pageURL))
	ttl, err := rdb.TTL(ctx, key).Result()
	if err != nil {
		log.Fatalf("redis ttl %s: %v", key, err)
	}
	if ttl <= 0 {
		log.Fatalf("redis: key %s missing or without expiry", key)
	}
}

func doJSON(method, path string, body, out any, want int) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("%s %s encode: %v", method, path, err)
		}
	}
	req, _ := http.NewRequest(method, baseURL+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != want {
		log.Fatalf("%s %s: want %d got %d", method, path, want, res.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			log.Fatalf("%s %s decode: %v", method, path, err)
		}
	}
}
