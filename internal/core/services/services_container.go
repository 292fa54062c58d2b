package services

import (
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
)

// NewServiceContainer wires the service graph for both resource families.
// The chemical and admin pipelines are the same engine instantiated over
// different repository bundles.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Chemical: newFamilyServices(domain.FamilyChemical, repos.Chemical),
		Admin:    newFamilyServices(domain.FamilyAdmin, repos.Admin),
	}
}

func newFamilyServices(family domain.ResourceFamily, repos portsrepo.FamilyRepositories) portssvc.FamilyServices {
	auditSvc := NewAuditService(repos.Audit, repos.Requisitions)
	deductionSvc := NewDeductionService(repos.Requisitions, repos.Catalog, auditSvc)
	return portssvc.FamilyServices{
		Requisition: NewRequisitionService(family, repos.Requisitions, repos.Catalog, auditSvc),
		Approval:    NewApprovalService(repos.Requisitions, deductionSvc, auditSvc),
		Catalog:     NewCatalogService(repos.Catalog),
		Audit:       auditSvc,
	}
}
