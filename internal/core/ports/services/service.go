package services

// FamilyServices holds the service facades for one resource family's
// pipeline. Chemical and admin requisitions run the same engine against
// different table sets.
type FamilyServices struct {
	Requisition RequisitionSvcFacade
	Approval    ApprovalSvcFacade
	Catalog     CatalogSvcFacade
	Audit       AuditSvcFacade
}

// ServiceContainer is the main entry point for accessing service
// functionality, used throughout the handlers.
type ServiceContainer struct {
	Chemical FamilyServices
	Admin    FamilyServices
}
