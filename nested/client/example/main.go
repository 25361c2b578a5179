package main

import (
	"log"
	"time"

	"github.com/goupdate/probemap/nested/client"
	"github.com/stretchr/testify/assert"
)

func main() {
	client.Timeout = 15 * time.Second

	client := client.New("http://localhost:80")

	// Start from an empty arena
	err := client.Clear()
	if err != nil {
		log.Fatalf("Failed to clear arena: %v", err)
	}
	log.Println("Cleared arena")

	// A flat record table
	_, err = client.Create("record", 8)
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	for key, value := range map[string]int64{"age": 30, "score": 95, "level": 5} {
		if err := client.Put("record", nil, key, value); err != nil {
			log.Fatalf("Failed to put %s: %v", key, err)
		}
	}

	score, found, err := client.Get("record", nil, "score")
	if err != nil {
		log.Fatalf("Failed to get score: %v", err)
	}
	assert.Equal(nil, true, found, "Expected score to be found")
	assert.Equal(nil, int64(95), score, "Expected score 95")
	log.Printf("score = %d", score)

	// Nested tables: record -> a -> b with terminal c
	_, err = client.Child("record", nil, "a", 8)
	if err != nil {
		log.Fatalf("Failed to create child: %v", err)
	}
	_, err = client.Child("record", []string{"a"}, "b", 8)
	if err != nil {
		log.Fatalf("Failed to create child: %v", err)
	}
	if err := client.Put("record", []string{"a", "b"}, "c", 0); err != nil {
		log.Fatalf("Failed to put terminal: %v", err)
	}

	for i := 0; i < 1000; i++ {
		if _, err := client.Incr("record", []string{"a", "b", "c"}, 1); err != nil {
			log.Fatalf("Failed to incr: %v", err)
		}
	}

	total, err := client.Resolve("record", []string{"a", "b", "c"})
	if err != nil {
		log.Fatalf("Failed to resolve: %v", err)
	}
	assert.Equal(nil, int64(1000), total, "Expected 1000 increments")
	log.Printf("a.b.c = %d", total)

	stats, arenaLen, err := client.Stats()
	if err != nil {
		log.Fatalf("Failed to get stats: %v", err)
	}
	log.Printf("%d tables in arena, %d named roots: %+v", arenaLen, len(stats), stats)
}
