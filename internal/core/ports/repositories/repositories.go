package repositories

// FamilyRepositories bundles the repositories backing one resource family's
// table set. The approval engine is parameterized over this bundle, so the
// chemical and admin pipelines share one implementation.
type FamilyRepositories struct {
	Requisitions RequisitionRepositoryFacade
	Catalog      CatalogRepositoryFacade
	Audit        AuditRepositoryFacade
}

// RepositoryProvider holds the repository bundles for both resource families.
type RepositoryProvider struct {
	Chemical FamilyRepositories
	Admin    FamilyRepositories
}
