package master

import id "carelink/pkg/domain"

// ServiceType is master data for a legal service category (employment
// transition, type-B continuous support, ...). RequiredReviewMonths is the
// statutory plan review frequency; plan end dates derive from it.
type ServiceType struct {
	ID                   id.ServiceTypeID
	Name                 string
	Code                 string
	RequiredReviewMonths int
}
