package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailywarden/warden/internal/domain/shared"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, "warden", cfg.App.Name)
	assert.NotNil(t, cfg.App.Location)
	assert.Equal(t, 0, cfg.Tracker.ResetHour)
	assert.Equal(t, []int{20, 22, 23}, cfg.Tracker.ReminderHours)
	assert.Equal(t, 2, cfg.Tracker.UrgentThresholdHours)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "daily_updates.json", cfg.Storage.FilePath)
	assert.False(t, cfg.Telegram.Enabled())
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("WARDEN_TRACKER_REMINDER_HOURS", "18, 21")
	t.Setenv("WARDEN_TRACKER_RESET_HOUR", "4")
	t.Setenv("WARDEN_STORAGE_DRIVER", "sqlite")
	t.Setenv("WARDEN_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("WARDEN_TELEGRAM_CHAT_ID", " -1001 ")
	t.Setenv("WARDEN_HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("WARDEN_APP_TIMEZONE", "UTC")

	cfg, err := Load(NewViper())
	require.NoError(t, err)

	assert.Equal(t, []int{18, 21}, cfg.Tracker.ReminderHours)
	assert.Equal(t, 4, cfg.Tracker.ResetHour)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, "-1001", cfg.Telegram.ChatID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, time.UTC, cfg.App.Location)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tracker:
  reminder_hours: [19, 23]
  urgent_threshold_hours: 3
storage:
  driver: memory
log:
  level: debug
`), 0o600))

	v := NewViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []int{19, 23}, cfg.Tracker.ReminderHours)
	assert.Equal(t, 3, cfg.Tracker.UrgentThresholdHours)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_CollectsProblems(t *testing.T) {
	v := NewViper()
	v.Set("tracker.reset_hour", 24)
	v.Set("tracker.reminder_hours", "20,x")
	v.Set("tracker.urgent_threshold_hours", -1)
	v.Set("storage.driver", "etcd")
	v.Set("app.timezone", "Mars/Olympus")

	_, err := Load(v)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)

	msg := err.Error()
	for _, want := range []string{"tracker.reset_hour", "tracker.reminder_hours", "urgent_threshold_hours", "etcd", "Mars/Olympus"} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_ReminderHourOutOfRange(t *testing.T) {
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	cfg.Tracker.ReminderHours = []int{20, 25}
	err = cfg.Validate()
	assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)
	assert.ErrorIs(t, err, shared.ErrHourOutOfRange)
}

func TestValidate_DriverRequirements(t *testing.T) {
	cfg, err := Load(NewViper())
	require.NoError(t, err)

	cfg.Storage.Driver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "storage.postgres.url is required")

	cfg.Storage.Postgres.URL = "postgres://localhost/warden"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_HoursParseAsDecimal(t *testing.T) {
	tests := []struct {
		name      string
		resetHour string
		reminders string
		wantReset int
		wantHours []int
	}{
		{name: "leading zero", resetHour: "09", reminders: "09,20", wantReset: 9, wantHours: []int{9, 20}},
		{name: "not octal", resetHour: "010", reminders: "010,20", wantReset: 10, wantHours: []int{10, 20}},
		{name: "padded", resetHour: " 7 ", reminders: " 08 , 23 ", wantReset: 7, wantHours: []int{8, 23}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WARDEN_TRACKER_RESET_HOUR", tt.resetHour)
			t.Setenv("WARDEN_TRACKER_REMINDER_HOURS", tt.reminders)

			cfg, err := Load(NewViper())
			require.NoError(t, err)
			assert.Equal(t, tt.wantReset, cfg.Tracker.ResetHour)
			assert.Equal(t, tt.wantHours, cfg.Tracker.ReminderHours)
		})
	}
}

func TestLoad_RejectsNonIntegerHours(t *testing.T) {
	t.Run("reset hour", func(t *testing.T) {
		t.Setenv("WARDEN_TRACKER_RESET_HOUR", "abc")

		_, err := Load(NewViper())
		assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)
		assert.ErrorContains(t, err, `tracker.reset_hour: "abc" is not an integer`)
	})

	t.Run("reminder hours", func(t *testing.T) {
		t.Setenv("WARDEN_TRACKER_REMINDER_HOURS", "20,abc")

		_, err := Load(NewViper())
		assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)
		assert.ErrorContains(t, err, `tracker.reminder_hours: "abc" is not an integer`)
	})

	t.Run("urgent threshold", func(t *testing.T) {
		t.Setenv("WARDEN_TRACKER_URGENT_THRESHOLD_HOURS", "2h")

		_, err := Load(NewViper())
		assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)
		assert.ErrorContains(t, err, "tracker.urgent_threshold_hours")
	})

	t.Run("fractional hour", func(t *testing.T) {
		v := NewViper()
		v.Set("tracker.reset_hour", 6.5)

		_, err := Load(v)
		assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)
	})
}

func TestLoad_EmptyReminderHoursDisablesReminders(t *testing.T) {
	v := NewViper()
	v.Set("tracker.reminder_hours", []int{})

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.Tracker.ReminderHours)
}

func TestLoad_EmptyTimezoneIsLocal(t *testing.T) {
	v := NewViper()
	v.Set("app.timezone", "")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, time.Local, cfg.App.Location)
}
