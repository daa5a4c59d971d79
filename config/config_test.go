package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TIENDA_TEST_DURATION", "90s")
	t.Setenv("TIENDA_TEST_BAD_DURATION", "soon")
	t.Setenv("TIENDA_TEST_INT32", "42")
	t.Setenv("TIENDA_TEST_FLOAT", "2.5")

	assert.Equal(t, 90*time.Second, getDurationEnv("TIENDA_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, getDurationEnv("TIENDA_TEST_BAD_DURATION", time.Second))
	assert.Equal(t, int32(42), getInt32Env("TIENDA_TEST_INT32", 1))
	assert.Equal(t, 2.5, getFloat64Env("TIENDA_TEST_FLOAT", 1))
	assert.Equal(t, "fallback", getEnv("TIENDA_TEST_MISSING", "fallback"))
}

func TestConfig_Enabled(t *testing.T) {
	cfg := &Config{WooURL: "https://shop.example", WooConsumerKey: "ck"}
	assert.False(t, cfg.CommerceEnabled())

	cfg.WooConsumerSecret = "cs"
	assert.True(t, cfg.CommerceEnabled())

	assert.False(t, cfg.StorageEnabled())
}

func TestValidate_FixesPageSize(t *testing.T) {
	cfg := &Config{StrapiURL: "http://cms", LookupPageSize: 0, JWTSecret: "x"}
	cfg.Validate()
	assert.Equal(t, 1000, cfg.LookupPageSize)
}

func TestGetLocationEnv(t *testing.T) {
	t.Setenv("TIENDA_TEST_TZ", "UTC")
	t.Setenv("TIENDA_TEST_BAD_TZ", "Mars/Olympus_Mons")
	fallback := time.FixedZone("ART", -3*60*60)

	assert.Equal(t, "UTC", getLocationEnv("TIENDA_TEST_TZ", fallback).String())
	assert.Same(t, fallback, getLocationEnv("TIENDA_TEST_BAD_TZ", fallback))
	assert.Same(t, fallback, getLocationEnv("TIENDA_TEST_MISSING_TZ", fallback))
}
