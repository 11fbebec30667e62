// privacy.go - privacy-conscious request logging (nothing is stored)
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
)

// ipHasher turns client addresses into short salted hashes so log lines can
// be correlated within one process lifetime without recording raw IPs.
type ipHasher struct {
	salt string
}

func newIPHasher() *ipHasher {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate hashing salt:", err)
	}
	return &ipHasher{salt: hex.EncodeToString(bytes)}
}

// Hash is consistent per IP for the lifetime of the hasher.
func (h *ipHasher) Hash(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + h.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// skipVisitorLog reports paths that never produce a visit line.
func skipVisitorLog(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/images/") ||
		strings.HasPrefix(path, "/favicon") ||
		path == "/healthz"
}

// Privacy-conscious visit logging middleware
func visitorLogMiddleware(h *ipHasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipVisitorLog(path) {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		c.Next()
		log.Printf("visit %s %s status=%d visitor=%s", c.Request.Method, path, c.Writer.Status(), h.Hash(c.ClientIP()))
	}
}
