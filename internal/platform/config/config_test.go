// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/techhub")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "/keys/private.pem")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
}

/*
TestParse_Defaults verifies the default role hierarchy and optional integrations.
*/
func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"user", "contributor", "moderator", "editor", "admin", "core_admin"}, cfg.RoleHierarchy)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.PublicationReviewKinds)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.False(t, cfg.HasBootstrapAdmin())
	assert.True(t, cfg.IsDevelopment())
}

/*
TestParse_Lists verifies comma separated settings.
*/
func TestParse_Lists(t *testing.T) {
	setRequired(t)
	t.Setenv("PUBLICATION_REVIEW_KINDS", "job,event")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "owner@techhub.test")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "s3cret-pass")

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"job", "event"}, cfg.PublicationReviewKinds)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.HasBootstrapAdmin())
}

/*
TestParse_MissingRequired ensures required variables are enforced.
*/
func TestParse_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := config.Parse()
	assert.Error(t, err)
}

func TestAllowsOrigin(t *testing.T) {
	setRequired(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://techhub.dev,https://partners.example.org")

	cfg, err := config.Parse()
	require.NoError(t, err)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://techhub.dev", true},
		{"https://admin.techhub.dev", true},
		{"https://partners.example.org", true},
		{"http://techhub.dev", false},
		{"https://evil-techhub.dev", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, cfg.AllowsOrigin(tt.origin), tt.origin)
	}
}

func TestParse_RateLimitMustBePositive(t *testing.T) {
	setRequired(t)
	t.Setenv("RATE_LIMIT_BURST", "0")

	_, err := config.Parse()
	assert.Error(t, err)
}

func TestParse_RoleHierarchyMustKeepPlatformRoles(t *testing.T) {
	setRequired(t)

	t.Setenv("ROLE_HIERARCHY", "member,staff,owner")
	_, err := config.Parse()
	assert.Error(t, err)

	t.Setenv("ROLE_HIERARCHY", "user,contributor,mentor,moderator,editor,admin,core_admin")
	cfg, err := config.Parse()
	require.NoError(t, err)
	assert.Len(t, cfg.RoleHierarchy, 7)
}
