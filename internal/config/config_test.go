package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
server:
  port: 8080
database:
  driver: postgres
  host: db
  user: booking
  database: menu_booking
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 2*time.Second, cfg.LockTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0 0 18 * * *", cfg.Scheduler.SendBookingReminders)
	assert.Equal(t, "", cfg.GetGRPCAddress())
	assert.Equal(t, "postgres://booking:@db:5432/menu_booking?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GRPC_PORT", "9001")
	t.Setenv("BOOKING_LOCK_TIMEOUT_MS", "750")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, ":9001", cfg.GetGRPCAddress())
	assert.Equal(t, 750*time.Millisecond, cfg.LockTimeout())
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "booking-events", cfg.Events.Topic)
}

func TestLoad_MemoryDriver(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 8080
database:
  driver: memory
memory:
  seed_items:
    - id: 1
      name: Chef's Table
      is_bookable: true
`))
	require.NoError(t, err)
	require.Len(t, cfg.Memory.SeedItems, 1)
	assert.True(t, cfg.Memory.SeedItems[0].IsBookable)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad port", Config{Server: ServerConfig{Port: 0}}},
		{"missing db host", Config{Server: ServerConfig{Port: 8080}, Database: DatabaseConfig{Driver: "postgres"}}},
		{"unknown driver", Config{Server: ServerConfig{Port: 8080}, Database: DatabaseConfig{Driver: "mongo"}}},
		{"port collision", Config{Server: ServerConfig{Port: 8080}, GRPC: GRPCConfig{Port: 8080}, Database: DatabaseConfig{Driver: "memory"}}},
		{"negative lock timeout", Config{Server: ServerConfig{Port: 8080}, Database: DatabaseConfig{Driver: "memory"}, Booking: BookingConfig{LockTimeoutMs: -1}}},
		{"sendgrid without sender", Config{Server: ServerConfig{Port: 8080}, Database: DatabaseConfig{Driver: "memory"}, Email: EmailConfig{SendGridAPIKey: "SG.x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
