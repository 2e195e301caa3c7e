// Package mongo connects to the MongoDB deployment backing the document store.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Config holds MongoDB connection settings.
type Config struct {
	URI                    string        `koanf:"uri"`
	Database               string        `koanf:"database"`
	ServerSelectionTimeout time.Duration `koanf:"server_selection_timeout"`
	ConnectTimeout         time.Duration `koanf:"connect_timeout"`
}

var hostPattern = regexp.MustCompile(`@([^/?]+)`)

// SafeHost returns the cluster address of uri without its credentials.
func SafeHost(uri string) string {
	if m := hostPattern.FindStringSubmatch(uri); m != nil {
		return m[1]
	}
	return "Local/Unknown Host"
}

// HasPlaceholders reports whether uri still contains template credentials.
func HasPlaceholders(uri string) bool {
	return strings.Contains(uri, "<password>") || strings.Contains(uri, "<username>")
}

// Diagnose turns a connection failure into an operator-facing remediation.
func Diagnose(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "bad auth") || strings.Contains(msg, "authentication failed"):
		return "authentication failed: check the database user name and password in the URI and URL-encode special characters"
	case strings.Contains(msg, "timed out") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host"):
		return "network error: the cluster cannot be found; check connectivity and the network access list"
	default:
		return err.Error()
	}
}

// Connect opens a client and verifies it with a ping. Connection failures
// are logged with a diagnosis and returned.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	slog.Info("targeting MongoDB cluster", "host", SafeHost(cfg.URI))
	if HasPlaceholders(cfg.URI) {
		slog.Error("MongoDB URI still contains placeholder credentials such as <password>")
	}

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		slog.Error("MongoDB connection failed", "host", SafeHost(cfg.URI), "diagnosis", Diagnose(err))
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("MongoDB connection successful", "host", SafeHost(cfg.URI))
	return client, nil
}
