package main

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// cleanup-worker sweeps generated ID cards and uploaded photos that have
// aged past the retention window. Files younger than the window are never
// touched, so cards still being downloaded by concurrent requests survive
// the sweep.
func main() {
	idcardDir := getEnv("IDCARD_DIR", "./idcards")
	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	retention := getEnvDuration("RETENTION", 7*24*time.Hour)
	interval := getEnvDuration("SWEEP_INTERVAL", time.Hour)

	log.Printf("cleanup-worker sweeping %s and %s every %s (retention %s)",
		idcardDir, uploadDir, interval, retention)

	for {
		sweep(idcardDir, retention)
		sweep(uploadDir, retention)
		time.Sleep(interval)
	}
}

func sweep(dir string, retention time.Duration) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("sweep %s: %v", dir, err)
		}
		return
	}

	cutoff := time.Now().Add(-retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("sweep %s: remove %s: %v", dir, entry.Name(), err)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("sweep %s: removed %d expired files", dir, removed)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return defaultValue
}
