package utils

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	Date string `validate:"isodate"`
	Time string `validate:"hhmm"`
	Role string `validate:"role"`
}

func TestRegisterTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterTags(v))

	assert.NoError(t, v.Struct(slotRequest{Date: "2025-03-14", Time: "09:30", Role: "salon_owner"}))

	bad := []slotRequest{
		{Date: "14/03/2025", Time: "09:30", Role: "user"},
		{Date: "2025-02-30", Time: "09:30", Role: "user"},
		{Date: "2025-03-14", Time: "9:30", Role: "user"},
		{Date: "2025-03-14", Time: "24:00", Role: "user"},
		{Date: "2025-03-14", Time: "09:30", Role: "stylist"},
	}
	for _, req := range bad {
		assert.Error(t, v.Struct(req), "%+v", req)
	}
}

func TestHealthStatusHealthy(t *testing.T) {
	assert.False(t, HealthStatus{}.Healthy())
	assert.True(t, HealthStatus{Mongo: true, Redis: map[string]bool{"auth": true}}.Healthy())
	assert.False(t, HealthStatus{Mongo: true, Redis: map[string]bool{"auth": true, "session": false}}.Healthy())
}

func TestTokenRoundTrip(t *testing.T) {
	token, exp, err := GenerateToken("u1", "a@b.c", "salon_owner", time.Hour)
	require.NoError(t, err)
	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "salon_owner", claims.Role)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())

	_, err = ParseClaims(token + "x")
	assert.Error(t, err)
}
