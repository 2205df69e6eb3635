package response

import "seguranca_xpto/internal/domain/status"

// EstimateStatusResponse is the combined lifecycle view both UIs consume: the
// canonical status, its banner line, and the permitted-action flags for each
// surface. All four fields come from the same snapshot in a single derivation,
// which is what guarantees the portal and the admin console can never render
// contradictory states from the same data.
type EstimateStatusResponse struct {
	DisplayStatus        string                      `json:"displayStatus"`
	StatusMessage        string                      `json:"statusMessage"`
	CustomerCapabilities status.CustomerCapabilities `json:"customerCapabilities"`
	AdminCapabilities    status.AdminCapabilities    `json:"adminCapabilities"`
}

func FromSnapshot(s *status.MetadataSnapshot) EstimateStatusResponse {
	ds := status.Resolve(s)
	caps := status.Derive(s)
	return EstimateStatusResponse{
		DisplayStatus:        string(ds),
		StatusMessage:        status.Message(ds),
		CustomerCapabilities: caps.Customer,
		AdminCapabilities:    caps.Admin,
	}
}
