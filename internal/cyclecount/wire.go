//go:build wireinject
// +build wireinject

package cyclecount

import (
	"math/rand"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/delivery/http"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/repository"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/sampler"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
	userrepository "github.com/PapaBear1981/supplyline-mro-suite/internal/user/repository"
)

// ProvideRepository provides the cycle count repository
func ProvideRepository(db *gorm.DB) domain.Repository {
	return repository.NewGormRepository(db)
}

// ProvideUserDirectory provides the user read model
func ProvideUserDirectory(db *gorm.DB) userdomain.Directory {
	return userrepository.NewGormDirectory(db)
}

// ProvideSampler provides a time-seeded sampler
func ProvideSampler(repo domain.Repository) *sampler.Sampler {
	return sampler.New(repo.Inventory(), rand.New(rand.NewSource(rand.Int63())))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideRepository,
	ProvideUserDirectory,
	ProvideSampler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, audit domain.AuditLogger, cache *redis.Client) (*http.CycleCountHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewCycleCountHandler,
	)
	return nil, nil
}
