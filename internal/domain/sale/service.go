package sale

import "context"

type SaleService interface {
	Create(ctx context.Context, req CreateSaleRequest) (Sale, error)
	GetByID(ctx context.Context, id string) (Sale, error)
	List(ctx context.Context, filter SaleFilter) (ListSaleResponse, error)
	Update(ctx context.Context, req UpdateSaleRequest) (Sale, error)
	Delete(ctx context.Context, id string, performedBy, performedByName string) error
	GetStatistics(ctx context.Context, req StatisticsRequest) (Statistics, error)
	GetTopItems(ctx context.Context, req StatisticsRequest) ([]TopItem, error)
}
