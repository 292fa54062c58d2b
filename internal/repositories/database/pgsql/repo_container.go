package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the repository bundles for both resource
// families against one connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Chemical: newFamilyRepositories(dbPool, domain.FamilyChemical),
		Admin:    newFamilyRepositories(dbPool, domain.FamilyAdmin),
	}
}

func newFamilyRepositories(dbPool *pgxpool.Pool, family domain.ResourceFamily) portsrepo.FamilyRepositories {
	return portsrepo.FamilyRepositories{
		Requisitions: newPgxRequisitionRepository(dbPool, family),
		Catalog:      newPgxCatalogRepository(dbPool, family),
		Audit:        newPgxAuditRepository(dbPool, family),
	}
}
