package config

import (
	"log"
	"os"
	"strconv"

	"github.com/taskloop/task-service/pkg/permission"
)

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "user"

type Config struct {
	Env              string
	Port             string
	DBURL            string
	JWTSecret        string
	AccessExpiryMin  int
	RefreshExpiryMin int
	RolePermissions  map[string]permission.Set
}

func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DBURL:            mustGetEnv("DB_URL"),
		JWTSecret:        mustGetEnv("JWT_SECRET"),
		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", 60),
		RefreshExpiryMin: getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		RolePermissions:  defaultRolePermissions(),
	}
}

// DefaultPermissions returns the capability set granted to the given role.
func (c *Config) DefaultPermissions(role string) permission.Set {
	return c.RolePermissions[role]
}

func defaultRolePermissions() map[string]permission.Set {
	return map[string]permission.Set{
		"user": {
			permission.TaskRead,
			permission.TaskCreate,
			permission.TaskUpdate,
			permission.TaskDelete,
		},
		"moderator": {
			permission.CommentDelete,
		},
		"admin": {
			permission.Wildcard,
		},
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)

	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}

	return val
}
