// internal/recommendation/providers.go
package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"migratio-workers/internal/common/errors"
	"migratio-workers/internal/common/logger"
	"migratio-workers/internal/models"
)

const (
	profileCacheKeyPrefix = "user:profile:"
	programCatalogKey     = "programs:active"
	programDetailsPrefix  = "program:details:"
)

// PostgresProfileProvider reads applicant profiles from Postgres through a
// Redis read-through cache. Cache misses and unmarshal failures fall back
// to the database.
type PostgresProfileProvider struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	log      logger.Logger
}

func NewPostgresProfileProvider(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *PostgresProfileProvider {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PostgresProfileProvider{db: db, redis: redisClient, cacheTTL: cacheTTL, log: log}
}

func (p *PostgresProfileProvider) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	cacheKey := profileCacheKeyPrefix + userID
	if p.redis != nil {
		if val, err := p.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.Profile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	var doc []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT doc FROM profiles WHERE user_id = $1`, userID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("user_profile", err)
	}

	var profile models.Profile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, errors.NewQueryExecutionFailedError("user_profile", err)
	}

	if p.redis != nil {
		if err := p.redis.Set(ctx, cacheKey, doc, p.cacheTTL).Err(); err != nil {
			p.log.Warn("profile cache write failed", map[string]interface{}{
				"userId": userID,
				"error":  err.Error(),
			})
		}
	}
	return &profile, nil
}

// PostgresProgramCatalog reads the program catalog from Postgres with the
// active-program listing cached in Redis.
type PostgresProgramCatalog struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	log      logger.Logger
}

func NewPostgresProgramCatalog(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *PostgresProgramCatalog {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PostgresProgramCatalog{db: db, redis: redisClient, cacheTTL: cacheTTL, log: log}
}

func (c *PostgresProgramCatalog) ListActivePrograms(ctx context.Context) ([]models.Program, error) {
	if c.redis != nil {
		if val, err := c.redis.Get(ctx, programCatalogKey).Result(); err == nil {
			var programs []models.Program
			if err := json.Unmarshal([]byte(val), &programs); err == nil {
				return programs, nil
			}
		}
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT doc FROM programs WHERE active = TRUE ORDER BY program_id`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("program_catalog", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, errors.NewQueryExecutionFailedError("program_catalog", err)
		}
		var program models.Program
		if err := json.Unmarshal(doc, &program); err != nil {
			return nil, errors.NewQueryExecutionFailedError("program_catalog", err)
		}
		programs = append(programs, program)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("program_catalog", err)
	}

	if c.redis != nil && len(programs) > 0 {
		if encoded, err := json.Marshal(programs); err == nil {
			if err := c.redis.Set(ctx, programCatalogKey, encoded, c.cacheTTL).Err(); err != nil {
				c.log.Warn("program catalog cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
	return programs, nil
}

func (c *PostgresProgramCatalog) GetProgramDetails(ctx context.Context, programID string) (*models.Program, error) {
	cacheKey := programDetailsPrefix + programID
	if c.redis != nil {
		if val, err := c.redis.Get(ctx, cacheKey).Result(); err == nil {
			var program models.Program
			if err := json.Unmarshal([]byte(val), &program); err == nil {
				return &program, nil
			}
		}
	}

	var doc []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT doc FROM programs WHERE program_id = $1`, programID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("program catalog", "programId: "+programID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("program_details", err)
	}

	var program models.Program
	if err := json.Unmarshal(doc, &program); err != nil {
		return nil, errors.NewQueryExecutionFailedError("program_details", err)
	}

	if c.redis != nil {
		if err := c.redis.Set(ctx, cacheKey, doc, c.cacheTTL).Err(); err != nil {
			c.log.Warn("program details cache write failed", map[string]interface{}{
				"programId": programID,
				"error":     err.Error(),
			})
		}
	}
	return &program, nil
}

var (
	_ ProfileProvider = (*PostgresProfileProvider)(nil)
	_ ProgramCatalog  = (*PostgresProgramCatalog)(nil)
)
