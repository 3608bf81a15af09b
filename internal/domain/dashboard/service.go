package dashboard

import "context"

// DashboardService builds the overview; its sections load concurrently.
type DashboardService interface {
	GetOverview(ctx context.Context) (Overview, error)
}
