package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}, cfg.WorkDays.DefaultWorkingDays)
	assert.False(t, cfg.WorkDays.AllowWorkOnNonWorkingDays)
	assert.Equal(t, 15*time.Minute, cfg.WorkDays.CacheTTL)
	assert.Equal(t, 2, cfg.ShiftAudit.Workers)
	assert.Equal(t, 10*time.Second, cfg.ShiftAudit.DrainTimeout)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DEFAULT_WORKING_DAYS", "monday, saturday")
	v.Set("WORKDAYS_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("SHIFT_AUDIT_DRAIN_TIMEOUT", "3s")
	cfg := fromViper(v)

	assert.Equal(t, []string{"MONDAY", "SATURDAY"}, cfg.WorkDays.DefaultWorkingDays)
	assert.Equal(t, 15*time.Minute, cfg.WorkDays.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShiftAudit.DrainTimeout)
}
