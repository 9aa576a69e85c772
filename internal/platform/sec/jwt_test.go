// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/platform/sec"
)

func newTestTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenService(key, &key.PublicKey, issuer)
}

/*
TestTokenService_RoundTrip verifies claims survive signing and verification.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, "techhub.test")

	token, err := service.GenerateAccessToken(7, "dev@techhub.test", string(sec.RoleEditor), time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, sec.Actor{UserID: 7, Role: sec.RoleEditor}, claims.Actor())
	assert.True(t, claims.IssuedBefore(time.Now().Add(time.Second)))
	assert.False(t, claims.IssuedBefore(time.Now().Add(-time.Hour)))
}

/*
TestTokenService_Rejects covers expired tokens, foreign keys and issuer mismatch.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTestTokenService(t, "techhub.test")

	expired, err := service.GenerateAccessToken(1, "a@b.c", "user", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	other := newTestTokenService(t, "techhub.test")
	foreign, err := other.GenerateAccessToken(1, "a@b.c", "user", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = service.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	service := newTestTokenService(t, "techhub.test")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "techhub.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		UserID: 1,
		Role:   string(sec.RoleCoreAdmin),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = service.VerifyToken(raw)
	assert.Error(t, err)

	elsewhere := newTestTokenService(t, "elsewhere")
	token, err := elsewhere.GenerateAccessToken(1, "a@b.c", "user", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestLoadTokenService(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	directory := t.TempDir()
	privatePath := filepath.Join(directory, "private.pem")
	publicPath := filepath.Join(directory, "public.pem")
	require.NoError(t, os.WriteFile(privatePath, pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0o600))
	require.NoError(t, os.WriteFile(publicPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}), 0o600))

	service, err := sec.LoadTokenService(privatePath, publicPath, "techhub.test")
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(3, "c@techhub.test", "user", time.Minute)
	require.NoError(t, err)
	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)

	_, err = sec.LoadTokenService(filepath.Join(directory, "missing.pem"), publicPath, "techhub.test")
	assert.Error(t, err)
}
