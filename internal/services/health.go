package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/habitstack/stickerdb/internal/config"
	"github.com/habitstack/stickerdb/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	LocalStore   string            `json:"localStore"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck performs a comprehensive health check of the service. remoteDB
// is nil when the service runs local-only; the remote checks then report
// "disabled" without affecting overall health.
func HealthCheck(cfg *config.Config, localDB, remoteDB *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check local store connectivity
	if err := pingGorm(localDB); err != nil {
		result.Status = "unhealthy"
		result.LocalStore = "error"
		result.Details["local_store_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Local store error: %v", err)
		log.Error().Err(err).Msg("health check failed, local store")
	} else {
		result.LocalStore = "ok"
		result.Details["local_store_path"] = cfg.LocalDBPath
	}

	if !cfg.RemoteEnabled() {
		result.Database = "disabled"
		result.Authorizer = "disabled"
		return result
	}

	// Check remote database connectivity
	if err := pingGorm(remoteDB); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_error"] = err.Error()
		appendError(&result, fmt.Sprintf("Database ping failed: %v", err))
		log.Error().Err(err).Msg("health check failed, database ping")
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	// Check Authorizer connectivity
	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		result.Status = "unhealthy"
		result.Authorizer = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		appendError(&result, fmt.Sprintf("Authorizer ping failed: %v", err))
		log.Error().Err(err).Msg("health check failed, authorizer ping")
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	return result
}

func pingGorm(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("no database connection")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func appendError(result *HealthCheckResult, msg string) {
	if result.ErrorMessage == "" {
		result.ErrorMessage = msg
	} else {
		result.ErrorMessage += "; " + msg
	}
}
