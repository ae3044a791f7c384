package usecases_port

import "context"

type EnqueueScrapeRunPort interface {
	Execute(ctx context.Context, maxPages int) (int, error)
}
